package main

import (
	"context"

	"github.com/fentz26/todo/internal/tracker"
)

func openSession(ctx context.Context) (*tracker.Service, error) {
	return tracker.Open(ctx, tracker.Options{
		DataFile: cfg.DataFile,
		DBPath:   cfg.DBPath,
		Logger:   logger,
	})
}

// withSession runs fn against a fresh session. When save is set the tasks
// are written back after fn succeeds.
func withSession(ctx context.Context, save bool, fn func(*tracker.Service) error) error {
	svc, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := fn(svc); err != nil {
		return err
	}
	if save {
		return svc.Save(ctx)
	}
	return nil
}

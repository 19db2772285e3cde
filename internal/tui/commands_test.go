package tui

import "testing"

func TestParseAdd(t *testing.T) {
	def := AddDefaults{Category: "General", Days: 7, Priority: 3}

	tests := []struct {
		name string
		args []string
		want AddRequest
	}{
		{
			name: "defaults",
			args: []string{"Buy", "milk"},
			want: AddRequest{Description: "Buy milk", Category: "General", Days: 7, Priority: 3},
		},
		{
			name: "all tokens",
			args: []string{"Pay", "#Finance", "rent", "!1", "+3"},
			want: AddRequest{Description: "Pay rent", Category: "Finance", Days: 3, Priority: 1},
		},
		{
			name: "negative days",
			args: []string{"Overdue", "+-2"},
			want: AddRequest{Description: "Overdue", Category: "General", Days: -2, Priority: 3},
		},
		{
			name: "lone markers are words",
			args: []string{"#", "!", "+"},
			want: AddRequest{Description: "# ! +", Category: "General", Days: 7, Priority: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAdd(tt.args, def)
			if err != nil {
				t.Fatalf("ParseAdd failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseAddErrors(t *testing.T) {
	def := AddDefaults{Category: "General", Days: 7, Priority: 3}
	for _, args := range [][]string{
		nil,
		{"#Home", "!2"},
		{"Task", "!high"},
		{"Task", "+soon"},
	} {
		if _, err := ParseAdd(args, def); err == nil {
			t.Errorf("Expected error for %q", args)
		}
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID([]string{"@12"}, 3)
	if err != nil || id != 12 {
		t.Errorf("Expected 12, got %d (%v)", id, err)
	}

	id, err = parseID(nil, 3)
	if err != nil || id != 3 {
		t.Errorf("Expected fallback 3, got %d (%v)", id, err)
	}

	if _, err := parseID(nil, 0); err == nil {
		t.Error("Expected error with nothing selected")
	}
	if _, err := parseID([]string{"x"}, 3); err == nil {
		t.Error("Expected error for non-numeric id")
	}
}

package plan

import "testing"

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}
	ok := []Block{{Day: 1, Title: "A"}}

	tests := []struct {
		name string
		plan Plan
		fail bool
	}{
		{"valid", Plan{LawTitle: "Lei", TotalDays: 1, Blocks: ok}, false},
		{"empty title", Plan{LawTitle: "  ", TotalDays: 1, Blocks: ok}, true},
		{"no blocks", Plan{LawTitle: "Lei", TotalDays: 1}, true},
		{"zero days", Plan{LawTitle: "Lei", TotalDays: 0, Blocks: ok}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.plan
			err := v.Validate(&p, Request{})
			if (err != nil) != tt.fail {
				t.Errorf("Validate() = %v, want fail=%v", err, tt.fail)
			}
			if err != nil && !err.Retryable {
				t.Error("structural failures should be retryable")
			}
		})
	}
}

func TestBlocksValidator(t *testing.T) {
	v := &BlocksValidator{}

	tests := []struct {
		name   string
		blocks []Block
		fail   bool
	}{
		{"valid", []Block{{Day: 1, Title: "A", Group: "G"}, {Day: 2, Title: "B"}}, false},
		{"zero day", []Block{{Day: 0, Title: "A"}}, true},
		{"duplicate day", []Block{{Day: 1, Title: "A"}, {Day: 1, Title: "B"}}, true},
		{"untitled", []Block{{Day: 1, Title: ""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan{Blocks: tt.blocks}
			err := v.Validate(&p, Request{})
			if (err != nil) != tt.fail {
				t.Errorf("Validate() = %v, want fail=%v", err, tt.fail)
			}
		})
	}
}

func TestBlocksValidator_FillsGroup(t *testing.T) {
	p := Plan{Blocks: []Block{{Day: 1, Title: "A", Group: " "}}}
	if err := (&BlocksValidator{}).Validate(&p, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Blocks[0].Group != DefaultGroup {
		t.Errorf("expected %q, got %q", DefaultGroup, p.Blocks[0].Group)
	}
}

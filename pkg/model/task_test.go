package model

import "testing"

func TestTaskPriorityValid(t *testing.T) {
	for _, p := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.Valid() {
			t.Fatalf("expected %q to be valid", p)
		}
	}

	for _, p := range []TaskPriority{"Urgent", "low", ""} {
		if p.Valid() {
			t.Fatalf("expected %q to be invalid", p)
		}
	}
}

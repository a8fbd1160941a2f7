package catalog

import "testing"

func TestSubjectsSorted(t *testing.T) {
	subjects := Subjects()
	if len(subjects) == 0 {
		t.Fatal("no subjects")
	}
	for i := 1; i < len(subjects); i++ {
		if subjects[i-1].Name >= subjects[i].Name {
			t.Errorf("subjects not sorted: %q before %q", subjects[i-1].Name, subjects[i].Name)
		}
	}
}

func TestTopics(t *testing.T) {
	topics := Topics("physics")
	if len(topics) == 0 {
		t.Fatal("physics should have topics")
	}

	found := false
	for _, topic := range topics {
		if topic == "Ohm's Law" {
			found = true
		}
	}
	if !found {
		t.Error("physics topics should include Ohm's Law")
	}

	// Subject lookup is forgiving about case; topic strings are verbatim
	if len(Topics("PHYSICS")) != len(topics) {
		t.Error("subject matching should be case-insensitive")
	}

	if Topics("astrology") != nil {
		t.Error("unknown subject should return nil")
	}
}

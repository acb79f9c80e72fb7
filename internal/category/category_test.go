package category

import "testing"

func TestRegistry(t *testing.T) {
	all := All()
	if len(all) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(all))
	}
	for _, id := range all {
		if !Valid(id) {
			t.Errorf("registered category %q reported invalid", id)
		}
	}
}

func TestInvalidCategories(t *testing.T) {
	for _, bad := range []string{"", "Produce", "misc", "dairy "} {
		if Valid(bad) {
			t.Errorf("Valid(%q) = true, want false", bad)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0] = "mutated"
	if All()[0] == "mutated" {
		t.Error("All exposes internal slice")
	}
}

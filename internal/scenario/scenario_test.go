package scenario

import "testing"

func TestBaselineCatalog(t *testing.T) {
	if len(Baseline) != 7 {
		t.Fatalf("expected 7 baseline scenarios, got %d", len(Baseline))
	}

	seen := make(map[string]bool)
	for _, s := range Baseline {
		if seen[s.ID] {
			t.Fatalf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = true

		if s.Intervener == "" || s.Beneficiary == "" {
			t.Fatalf("scenario %s missing witnesses", s.ID)
		}
		if s.Description == "" || s.PredictedHarm == "" {
			t.Fatalf("scenario %s missing narrative fields", s.ID)
		}
		if len(s.ExpectedScores) != 6 {
			t.Fatalf("scenario %s must score the six axes, got %d", s.ID, len(s.ExpectedScores))
		}
		for axis, v := range s.ExpectedScores {
			if v < 1 || v > 10 {
				t.Fatalf("scenario %s axis %s out of range: %v", s.ID, axis, v)
			}
		}
	}
}

func TestByID(t *testing.T) {
	s, err := ByID("scenario_003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Category != CategoryPreventiveAction {
		t.Fatalf("unexpected category %q", s.Category)
	}

	if _, err := ByID("scenario_999"); err == nil {
		t.Fatalf("expected error for unknown scenario")
	}
}

func TestByCategoryAndDifficulty(t *testing.T) {
	if got := len(ByCategory(CategoryEmotionalSupport)); got != 2 {
		t.Fatalf("expected 2 emotional support scenarios, got %d", got)
	}
	if got := len(ByCategory(Category("unknown"))); got != 0 {
		t.Fatalf("expected no scenarios for unknown category, got %d", got)
	}

	easy := len(ByDifficulty("easy"))
	medium := len(ByDifficulty("medium"))
	hard := len(ByDifficulty("hard"))
	if easy != 2 || medium != 3 || hard != 2 {
		t.Fatalf("unexpected difficulty split %d/%d/%d", easy, medium, hard)
	}
	if easy+medium+hard != len(Baseline) {
		t.Fatalf("difficulty buckets must cover the catalog")
	}
}

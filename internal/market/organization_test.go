package market

import (
	"math/rand"
	"testing"
	"time"

	"witness-lab/internal/domain"
	"witness-lab/internal/witness"
)

func TestRandomPair_NeedsTwoMembers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	empty := &Organization{ID: "org_empty"}
	if _, _, ok := empty.RandomPair(rng); ok {
		t.Fatalf("expected no pair from empty organization")
	}

	solo := &Organization{Witnesses: witness.NewPool("", 1, nil, rng, time.Second, nil)}
	if _, _, ok := solo.RandomPair(rng); ok {
		t.Fatalf("expected no pair from single-member organization")
	}
}

func TestRandomPair_AlwaysDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	org := &Organization{Witnesses: witness.NewPool("", 6, nil, rng, time.Second, nil)}

	for i := 0; i < 200; i++ {
		a, b, ok := org.RandomPair(rng)
		if !ok {
			t.Fatalf("expected a pair")
		}
		if a == b {
			t.Fatalf("pair must be distinct witnesses")
		}
	}
}

func TestByRoleAndTotalMinted(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	org := &Organization{Witnesses: witness.NewPool("org_1", 9, nil, rng, time.Second, nil)}

	if got := len(org.ByRole(domain.RoleValidator)); got != 3 {
		t.Fatalf("expected 3 validators, got %d", got)
	}
	if got := len(org.ByRole(domain.RoleIntervener)); got != 3 {
		t.Fatalf("expected 3 interveners, got %d", got)
	}

	org.Mints = []MintRecord{{Amount: 10.5}, {Amount: 4.5}}
	if org.TotalMinted() != 15 {
		t.Fatalf("expected total 15, got %v", org.TotalMinted())
	}
}

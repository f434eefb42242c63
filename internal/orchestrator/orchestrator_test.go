package orchestrator

import (
	"testing"

	"github.com/mentone-hv/hv-sync/internal/stage"
)

func TestResolveModulesBundle(t *testing.T) {
	got := ResolveModules([]string{"daily"})
	want := []stage.Name{stage.Results, stage.Players, stage.Ladder}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestResolveModulesCanonicalOrder(t *testing.T) {
	got := ResolveModules([]string{"ladder", "competitions", "games"})
	want := []stage.Name{stage.Competitions, stage.Games, stage.Ladder}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v at %d", got, want, i)
		}
	}
}

func TestResolveModulesFull(t *testing.T) {
	got := ResolveModules([]string{"full"})
	if len(got) != 6 {
		t.Fatalf("expected all 6 stages, got %d", len(got))
	}
}

func TestRegistryGetMissing(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Get("nonexistent"); ok {
		t.Fatalf("expected no record")
	}
}

package news

import (
	"math/rand"
	"testing"

	"github.com/zappabad/bullrun/internal/catalog"
)

func TestSelectForceCrash(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		ev := Select(rng, 0, true)
		if !ev.Crash {
			t.Fatal("forced selection returned a non-crash event")
		}
	}
}

func TestSelectZeroProbabilityNeverCrashes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		if ev := Select(rng, 0, false); ev.Crash {
			t.Fatal("crash selected with zero crash probability")
		}
	}
}

func TestSelectCrashFrequencyConvergesOnHard(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	settings, ok := catalog.Settings(catalog.DifficultyHard)
	if !ok {
		t.Fatal("hard difficulty missing from catalog")
	}

	const n = 20000
	crashes := 0
	for i := 0; i < n; i++ {
		if Select(rng, settings.CrashProbability, false).Crash {
			crashes++
		}
	}

	got := float64(crashes) / n
	want := settings.CrashProbability
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("crash frequency %v, want ~%v", got, want)
	}
}

func TestSelectCopiesImpactMap(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ev := Select(rng, 0, false)

	for id := range ev.Impact {
		ev.Impact[id] = 999
	}
	for _, tmpl := range catalog.NewsPool {
		for id, mult := range tmpl.Impact {
			if mult == 999 {
				t.Fatalf("catalog template %q mutated through event impact for %s", tmpl.Title, id)
			}
		}
	}
}

func TestSelectEventsCarryAllAssetImpacts(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		ev := Select(rng, 0.5, false)
		for _, id := range catalog.Assets {
			if _, ok := ev.Impact[id]; !ok {
				t.Fatalf("event %q missing impact for %s", ev.Title, id)
			}
		}
	}
}

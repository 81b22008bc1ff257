package difficulty

import (
	"math"
	"testing"

	"tabarranger/fretboard"
	"tabarranger/note"
)

func standardGuitar(t *testing.T) note.Tuning {
	t.Helper()
	return note.StandardGuitar()
}

// ── rawHeightOf / RawHeightWithFallback ──────────────────────────────────

func TestRawHeightOfAllOpenIsZeroWithNoFallback(t *testing.T) {
	f := fretboard.Fingering{{String: 0, Fret: 0}, {String: 1, Fret: 0}}
	got := RawHeightWithFallback(f, nil, false)
	if got != 0 {
		t.Errorf("raw height = %v, want 0", got)
	}
}

func TestRawHeightOfFallsBackToPrevious(t *testing.T) {
	f := fretboard.Fingering{{String: 0, Fret: 0}}
	prev := fretboard.Fingering{{String: 1, Fret: 5}, {String: 2, Fret: 7}}
	got := RawHeightWithFallback(f, prev, true)
	want := 6.0 // midpoint of 5 and 7
	if got != want {
		t.Errorf("raw height = %v, want %v", got, want)
	}
}

func TestRawHeightOfMidpoint(t *testing.T) {
	f := fretboard.Fingering{{String: 0, Fret: 3}, {String: 1, Fret: 7}}
	got := RawHeightWithFallback(f, nil, false)
	if got != 5 {
		t.Errorf("raw height = %v, want 5", got)
	}
}

// ── Easiness / EasinessFromStats agreement ──────────────────────────────

func TestEasinessFromStatsMatchesEasiness(t *testing.T) {
	tuning := standardGuitar(t)
	fb := fretboard.New(tuning)
	w := DefaultWeights()

	f := fretboard.Fingering{{String: 0, Fret: 0}}
	prev := fretboard.Fingering{{String: 1, Fret: 5}}

	direct := Easiness(fb, tuning, f, prev, true, w)

	stats := Precompute(fb, tuning, []fretboard.Fingering{f, prev})
	viaStats := EasinessFromStats(stats[0], stats[1], true, tuning.NStrings(), tuning.NFrets(), w)

	if math.Abs(direct-viaStats) > 1e-9 {
		t.Errorf("Easiness = %v, EasinessFromStats = %v, want equal", direct, viaStats)
	}
}

func TestIsolatedDifficultyIsReciprocalOfEasiness(t *testing.T) {
	tuning := standardGuitar(t)
	f := fretboard.Fingering{{String: 0, Fret: 5}}
	e := IsolatedEasiness(tuning, f)
	d := IsolatedDifficulty(tuning, f)
	if math.Abs(d-1/e) > 1e-9 {
		t.Errorf("IsolatedDifficulty = %v, want 1/%v = %v", d, e, 1/e)
	}
}

func TestIsolatedDifficultyPrefersOpenPosition(t *testing.T) {
	tuning := standardGuitar(t)
	open := fretboard.Fingering{{String: 0, Fret: 0}}
	fretted := fretboard.Fingering{{String: 4, Fret: 19}}

	if IsolatedDifficulty(tuning, open) >= IsolatedDifficulty(tuning, fretted) {
		t.Errorf("expected the open position to be less difficult than a high fretted position")
	}
}

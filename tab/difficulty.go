package tab

import (
	"tabarranger/difficulty"
	"tabarranger/fretboard"
	"tabarranger/note"
)

// TabDifficulty re-scores every decoded fingering in t in sequence order
// and sums the per-position difficulty, the round-trip law spec.md 8
// requires: re-scoring the chosen fingerings with the same weights
// reproduces the total difficulty implied by the transitions the arranger
// actually took. Events with no attached notes (unreachable chords the
// arranger skipped) are not part of the sequence, matching
// tuttut/logic/validation.py's get_tab_positions filter.
func TabDifficulty(t *Tab, tuning note.Tuning, w difficulty.Weights) float64 {
	var total float64
	var prev fretboard.Fingering
	hasPrev := false

	for _, m := range t.Measures {
		for _, ev := range m.Events {
			if len(ev.Notes) == 0 {
				continue
			}
			f := fingeringFromNotes(ev.Notes)
			total += difficulty.Difficulty(nil, tuning, f, prev, hasPrev, w)
			prev = f
			hasPrev = true
		}
	}

	return total
}

func fingeringFromNotes(notes []NoteEntry) fretboard.Fingering {
	f := make(fretboard.Fingering, len(notes))
	for i, n := range notes {
		f[i] = fretboard.Position{String: n.String, Fret: n.Fret}
	}
	return f
}

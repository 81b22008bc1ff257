// Package arranger decodes a sequence of chords into a sequence of
// concrete fretboard fingerings via a hidden Markov model: hidden states
// are fingerings, observations are chords, and transition cost reflects
// physical hand-movement effort between consecutive fingerings.
package arranger

import (
	"tabarranger/difficulty"
	"tabarranger/fretboard"
	"tabarranger/note"
)

// NoteEvent is one note-bearing onset from the caller's timeline, already
// repaired into the tuning's pitch range.
type NoteEvent struct {
	Index int // the caller's original event index, for mapping results back
	Notes []note.Note
}

// EventResult is the decoded fingering chosen for one surviving NoteEvent.
type EventResult struct {
	EventIndex int
	Chord      Chord
	Fingering  fretboard.Fingering
}

// Result is everything Arrange produces: the decoded sequence plus any
// recovered warnings (e.g. UnreachableChord).
type Result struct {
	Events   []EventResult
	Warnings []Warning
}

// Arrange builds the vocabulary of chords and fingerings seen in events, in
// first-seen order, growing the emission matrix incrementally; builds the
// transition matrix from cached per-fingering Stats; and decodes the most
// likely fingering sequence via log-space Viterbi.
//
// A chord with zero playable fingerings is not fatal: the event is skipped
// entirely (it contributes no observation and no decoded result) and a
// Warning is recorded instead.
func Arrange(tuning note.Tuning, w difficulty.Weights, events []NoteEvent) (*Result, error) {
	if len(events) == 0 {
		return nil, ErrEmptyInput
	}

	fb := fretboard.New(tuning)
	vocab := newVocabulary()
	unreachable := make(map[string]bool)

	var obs []int
	var survivingIndex []int
	var warnings []Warning

	for _, ev := range events {
		chord := ChordOf(ev.Notes)
		key := chord.key()

		if unreachable[key] {
			warnings = append(warnings, Warning{
				EventIndex: ev.Index,
				Kind:       "unreachable_chord",
				Detail:     "no playable fingering for this chord",
			})
			continue
		}

		col, known := vocab.lookup(chord)
		if !known {
			fingerings := fb.FingeringsForChord(noteOptionsFor(fb, chord))
			if len(fingerings) == 0 {
				unreachable[key] = true
				warnings = append(warnings, Warning{
					EventIndex: ev.Index,
					Kind:       "unreachable_chord",
					Detail:     "no playable fingering for this chord",
				})
				continue
			}
			col, _ = vocab.add(chord, fingerings)
		}

		obs = append(obs, col)
		survivingIndex = append(survivingIndex, ev.Index)
	}

	if len(obs) == 0 {
		return &Result{Warnings: warnings}, nil
	}

	stats := difficulty.Precompute(fb, tuning, vocab.fingerings)
	trans := buildTransitionMatrix(stats, tuning, w)
	pi := initialDistribution(tuning, vocab.fingeringsForColumn(obs[0]), len(vocab.fingerings))

	path := viterbiDecode(obs, pi, trans, &vocab.emission)

	results := make([]EventResult, len(path))
	for t, state := range path {
		results[t] = EventResult{
			EventIndex: survivingIndex[t],
			Chord:      vocab.chords[obs[t]],
			Fingering:  vocab.fingerings[state],
		}
	}

	return &Result{Events: results, Warnings: warnings}, nil
}

// noteOptionsFor builds the per-pitch position lists (note_options) a chord
// needs for fretboard.FingeringsForChord.
func noteOptionsFor(fb *fretboard.Fretboard, c Chord) [][]fretboard.Position {
	opts := make([][]fretboard.Position, len(c))
	for i, p := range c {
		opts[i] = fb.PositionsForPitch(p)
	}
	return opts
}

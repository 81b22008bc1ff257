package arranger

import "tabarranger/fretboard"

// vocabulary accumulates distinct chords and their fingerings in first-seen
// order, mirroring the incremental emission-matrix growth in spec.md 4.6:
// the HMM's state space and observation alphabet are both built lazily as
// new chords are encountered, never precomputed up front.
type vocabulary struct {
	chordIndex        map[string]int // chord key -> column index into emission
	chords            []Chord
	fingerings        []fretboard.Fingering // flat state list, index = HMM state
	fingeringsByChord [][]fretboard.Fingering
	emission          emissionMatrix
}

func newVocabulary() *vocabulary {
	return &vocabulary{chordIndex: make(map[string]int)}
}

// lookup returns the column index for c and whether it was already known.
func (v *vocabulary) lookup(c Chord) (int, bool) {
	idx, ok := v.chordIndex[c.key()]
	return idx, ok
}

// add registers a newly-seen chord with its (non-empty) fingerings,
// expanding the emission matrix and state list. Returns the new column
// index and the state indices assigned to its fingerings.
func (v *vocabulary) add(c Chord, fingerings []fretboard.Fingering) (col int, stateIndices []int) {
	col = len(v.chords)
	v.chordIndex[c.key()] = col
	v.chords = append(v.chords, c)
	v.fingeringsByChord = append(v.fingeringsByChord, fingerings)

	start := len(v.fingerings)
	v.fingerings = append(v.fingerings, fingerings...)
	v.emission.expand(len(fingerings))

	stateIndices = make([]int, len(fingerings))
	for i := range stateIndices {
		stateIndices[i] = start + i
	}
	return col, stateIndices
}

func (v *vocabulary) fingeringsForColumn(col int) []fretboard.Fingering {
	return v.fingeringsByChord[col]
}

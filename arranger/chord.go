package arranger

import (
	"sort"
	"strconv"
	"strings"

	"tabarranger/note"
)

// Chord is the sorted, de-duplicated tuple of pitches sounding at one onset
// tick. Two onsets with the same pitch set map to the same Chord.
type Chord []note.Pitch

// ChordOf builds the Chord for a set of Notes.
func ChordOf(notes []note.Note) Chord {
	seen := make(map[note.Pitch]bool, len(notes))
	pitches := make([]note.Pitch, 0, len(notes))
	for _, n := range notes {
		if !seen[n.Pitch] {
			seen[n.Pitch] = true
			pitches = append(pitches, n.Pitch)
		}
	}
	sort.Slice(pitches, func(i, j int) bool { return pitches[i] < pitches[j] })
	return Chord(pitches)
}

// key is a stable, comparable identity for use as a map key.
func (c Chord) key() string {
	var b strings.Builder
	for i, p := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(p)))
	}
	return b.String()
}

// Package note models pitches, note names and instrument tunings.
package note

import "fmt"

// Pitch is a MIDI-style semitone number (0-127 in the standard encoding).
// All note identity comparisons use this integer.
type Pitch int

// degreeNames is indexed by pitch % 12, sharps only (matching the degree
// naming tuttut derives from pretty_midi.note_number_to_name).
var degreeNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note carries its pitch plus a derived degree name and octave.
// Equality is pitch equality.
type Note struct {
	Pitch  Pitch
	Degree string
	Octave int
}

// FromPitch derives degree and octave from the canonical pitch-naming table.
// Octave numbering follows the MIDI convention where pitch 60 is C4.
func FromPitch(p Pitch) Note {
	degree := degreeNames[((int(p)%12)+12)%12]
	octave := int(p)/12 - 1
	return Note{Pitch: p, Degree: degree, Octave: octave}
}

// Equal reports pitch equality, the only identity relation for Notes.
func (n Note) Equal(other Note) bool {
	return n.Pitch == other.Pitch
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Degree, n.Octave)
}

// Tuning is an ordered sequence of open-string Notes, indexed 0 at the
// highest-pitched string through nstrings-1 at the lowest-pitched string.
type Tuning struct {
	strings     []Note
	nfrets      int
	scaleLength float64
}

// DefaultScaleLength is a typical steel-string acoustic scale length in mm,
// used only for the physical fret-distance recurrence (fretboard.FretDistance).
const DefaultScaleLength = 650.0

// NewTuning builds a Tuning from open-string pitches (index 0 = highest
// string) and a fret count. It enforces the spec's invariants: at least one
// string, at least one fret, and distinct open-string pitches (each string
// must be a distinct fretboard origin).
func NewTuning(stringPitches []Pitch, nfrets int) (Tuning, error) {
	if len(stringPitches) == 0 {
		return Tuning{}, fmt.Errorf("note: invalid tuning: need at least one string")
	}
	if nfrets < 1 {
		return Tuning{}, fmt.Errorf("note: invalid tuning: nfrets must be >= 1, got %d", nfrets)
	}

	seen := make(map[Pitch]bool, len(stringPitches))
	strings := make([]Note, len(stringPitches))
	for i, p := range stringPitches {
		if seen[p] {
			return Tuning{}, fmt.Errorf("note: invalid tuning: duplicate open-string pitch %d", p)
		}
		seen[p] = true
		strings[i] = FromPitch(p)
	}

	return Tuning{strings: strings, nfrets: nfrets, scaleLength: DefaultScaleLength}, nil
}

// NewTuningWithScale is NewTuning with an explicit scale length (mm), used by
// fretboard.FretDistance's physical-spacing calculation.
func NewTuningWithScale(stringPitches []Pitch, nfrets int, scaleLength float64) (Tuning, error) {
	t, err := NewTuning(stringPitches, nfrets)
	if err != nil {
		return Tuning{}, err
	}
	t.scaleLength = scaleLength
	return t, nil
}

// Strings returns the indexed sequence of open-string Notes.
func (t Tuning) Strings() []Note {
	return t.strings
}

// NStrings returns the number of strings.
func (t Tuning) NStrings() int {
	return len(t.strings)
}

// NFrets returns the number of frets (not counting the open string).
func (t Tuning) NFrets() int {
	return t.nfrets
}

// ScaleLength returns the scale length in mm used for physical fret spacing.
func (t Tuning) ScaleLength() float64 {
	return t.scaleLength
}

// AllPositions returns, for each string, the Note played at every fret
// 0..nfrets inclusive.
func (t Tuning) AllPositions() [][]Note {
	res := make([][]Note, len(t.strings))
	for s, open := range t.strings {
		notes := make([]Note, t.nfrets+1)
		for f := 0; f <= t.nfrets; f++ {
			notes[f] = FromPitch(open.Pitch + Pitch(f))
		}
		res[s] = notes
	}
	return res
}

// PitchBounds returns (min_string_pitch, max_string_pitch + nfrets), the
// inclusive range of pitches reachable anywhere on the fretboard.
func (t Tuning) PitchBounds() (min, max Pitch) {
	min, max = t.strings[0].Pitch, t.strings[0].Pitch
	for _, s := range t.strings[1:] {
		if s.Pitch < min {
			min = s.Pitch
		}
		if s.Pitch > max {
			max = s.Pitch
		}
	}
	return min, max + Pitch(t.nfrets)
}

// Tunings collects named tuning presets, recovered from
// tuttut.logic.theory.Tuning's standard_tuning/standard_ukulele_tuning
// constants and ako-backing-tracks/theory.GuitarTuning.
var Tunings = map[string][]Pitch{
	"standard":          {64, 59, 55, 50, 45, 40}, // E4 B3 G3 D3 A2 E2, high to low
	"drop_d":            {64, 59, 55, 50, 45, 38},
	"standard_ukulele":  {69, 64, 60, 67}, // A4 E4 C4 G4
	"open_g":            {62, 59, 55, 50, 43, 38},
}

// StandardGuitar builds the default 20-fret standard-tuning guitar.
func StandardGuitar() Tuning {
	t, err := NewTuning(Tunings["standard"], 20)
	if err != nil {
		panic("note: built-in standard tuning is invalid: " + err.Error())
	}
	return t
}

// Package fretboard enumerates fretboard positions, computes the geometric
// distance between them, and generates feasible fingerings for a chord.
package fretboard

import (
	"math"
	"sort"

	"tabarranger/note"
)

// Position is the pair (string_index, fret_index). Each position has a
// distinct identity even when two positions play the same pitch -- the HMM
// must distinguish "A4 on string 0 fret 5" from "A4 on string 1 fret 10".
type Position struct {
	String int
	Fret   int
}

// MaxEdgeDistance is the maximum fretboard distance between two positions
// for them to be connectable in the same fingering (spec.md 4.2 step 2a).
const MaxEdgeDistance = 6.0

// MaxFretSpan is the exclusive upper bound on a fingering's non-open fret
// span (spec.md 4.2 step 3b, "strictly less than 5").
const MaxFretSpan = 5

// Fretboard is an immutable catalog of every (string, fret) position for a
// tuning, built once and shared freely.
type Fretboard struct {
	tuning    note.Tuning
	positions []Position       // dense index -> position
	notes     []note.Note      // dense index -> note played there
	byPitch   map[note.Pitch][]int // pitch -> dense indices playing it
}

// New builds all nstrings x (nfrets+1) positions for the tuning.
func New(tuning note.Tuning) *Fretboard {
	fb := &Fretboard{
		tuning:  tuning,
		byPitch: make(map[note.Pitch][]int),
	}

	allNotes := tuning.AllPositions()
	for s, notesOnString := range allNotes {
		for f, n := range notesOnString {
			idx := len(fb.positions)
			fb.positions = append(fb.positions, Position{String: s, Fret: f})
			fb.notes = append(fb.notes, n)
			fb.byPitch[n.Pitch] = append(fb.byPitch[n.Pitch], idx)
		}
	}

	return fb
}

// Tuning returns the tuning this fretboard was built from.
func (fb *Fretboard) Tuning() note.Tuning {
	return fb.tuning
}

// NoteAt returns the Note played at a position.
func (fb *Fretboard) NoteAt(p Position) note.Note {
	return fb.notes[fb.index(p)]
}

func (fb *Fretboard) index(p Position) int {
	return p.String*(fb.tuning.NFrets()+1) + p.Fret
}

// PositionsForPitch returns every position playing exactly pitch p; may be
// empty.
func (fb *Fretboard) PositionsForPitch(p note.Pitch) []Position {
	idxs := fb.byPitch[p]
	res := make([]Position, len(idxs))
	for i, idx := range idxs {
		res[i] = fb.positions[idx]
	}
	return res
}

// Distance is the Euclidean distance between two positions, with string
// spacing normalized to 1/nstrings per string. If the target position is an
// open string, distance is 0 regardless of source -- open strings impose no
// hand-position cost.
func (fb *Fretboard) Distance(from, to Position) float64 {
	if to.Fret == 0 {
		return 0
	}
	n := float64(fb.tuning.NStrings())
	dx := float64(to.String)/n - float64(from.String)/n
	dy := float64(to.Fret - from.Fret)
	return math.Hypot(dx, dy)
}

// FretDistance returns the physical distance (mm) of fret nfret from the
// nut, via the recurrence h_i = L_i/17.817; L_{i+1} = L_i - h_i.
func FretDistance(nfret int, scaleLength float64) float64 {
	res := 0.0
	remaining := scaleLength
	for i := 0; i < nfret; i++ {
		h := remaining / 17.817
		res += h
		remaining -= h
	}
	return res
}

// isEdgePossible reports whether a directed edge between two positions in
// adjacent chord layers is admissible: different strings and a distance
// strictly less than MaxEdgeDistance.
func isEdgePossible(fb *Fretboard, from, to Position) bool {
	return from.String != to.String && fb.Distance(from, to) < MaxEdgeDistance
}

// Fingering is an ordered tuple of positions realizing a chord, one per
// distinct pitch.
type Fingering []Position

// key returns a canonical, order-independent identity for deduplication.
func (f Fingering) key() string {
	sorted := append(Fingering(nil), f...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].String != sorted[j].String {
			return sorted[i].String < sorted[j].String
		}
		return sorted[i].Fret < sorted[j].Fret
	})
	buf := make([]byte, 0, len(sorted)*4)
	for _, p := range sorted {
		buf = append(buf, byte(p.String), byte(p.String>>8), byte(p.Fret), byte(p.Fret>>8))
	}
	return string(buf)
}

// FingeringsForChord enumerates every feasible Fingering for a chord, given
// the ordered per-pitch position lists (note_options in spec.md 4.2). Empty
// per-pitch lists are dropped before enumeration. The result may be empty
// if the chord has no playable fingering.
func (fb *Fretboard) FingeringsForChord(noteOptions [][]Position) []Fingering {
	nonEmpty := make([][]Position, 0, len(noteOptions))
	for _, opts := range noteOptions {
		if len(opts) > 0 {
			nonEmpty = append(nonEmpty, opts)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	if len(nonEmpty) == 1 {
		res := make([]Fingering, len(nonEmpty[0]))
		for i, p := range nonEmpty[0] {
			res[i] = Fingering{p}
		}
		return res
	}

	var result []Fingering
	seen := make(map[string]bool)

	permutation := make([]int, len(nonEmpty))
	for i := range permutation {
		permutation[i] = i
	}

	permute(permutation, func(perm []int) {
		layers := make([][]Position, len(perm))
		for i, pi := range perm {
			layers[i] = nonEmpty[pi]
		}

		var walk func(path []Position, layer int)
		walk = func(path []Position, layer int) {
			if layer == len(layers) {
				if !fb.isFingeringPossible(path, len(nonEmpty)) {
					return
				}
				f := append(Fingering(nil), path...)
				k := f.key()
				if !seen[k] {
					seen[k] = true
					result = append(result, f)
				}
				return
			}
			for _, candidate := range layers[layer] {
				if layer > 0 && !isEdgePossible(fb, path[layer-1], candidate) {
					continue
				}
				walk(append(path, candidate), layer+1)
			}
		}
		walk(nil, 0)
	})

	return result
}

// isFingeringPossible admits a candidate path as a Fingering only if every
// string appears at most once, the non-open fret span is strictly less than
// MaxFretSpan, and the length does not exceed the number of input pitches.
func (fb *Fretboard) isFingeringPossible(path []Position, nPitches int) bool {
	if len(path) > nPitches {
		return false
	}

	strings := make(map[int]bool, len(path))
	var frets []int
	for _, p := range path {
		if strings[p.String] {
			return false
		}
		strings[p.String] = true
		if p.Fret != 0 {
			frets = append(frets, p.Fret)
		}
	}

	if len(frets) > 0 {
		minF, maxF := frets[0], frets[0]
		for _, f := range frets[1:] {
			if f < minF {
				minF = f
			}
			if f > maxF {
				maxF = f
			}
		}
		if maxF-minF >= MaxFretSpan {
			return false
		}
	}

	return true
}

// permute calls fn once for every permutation of the given slice, via
// Heap's algorithm. The slice passed to fn is reused between calls; fn must
// not retain it.
func permute(a []int, fn func([]int)) {
	n := len(a)
	c := make([]int, n)
	fn(a)
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			fn(a)
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}

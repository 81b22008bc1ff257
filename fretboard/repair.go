package fretboard

import (
	"math"

	"tabarranger/note"
)

// RepairOutOfRange octave-shifts each Note outside the tuning's pitch bounds
// by the minimum number of full octaves needed to bring it in range, then
// drops duplicates (by pitch). Notes that still cannot be brought in range
// are dropped. This is the default (non-preserve-highest) repair mode.
func (fb *Fretboard) RepairOutOfRange(notes []note.Note) []note.Note {
	min, max := fb.tuning.PitchBounds()
	shifted := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		shifted = append(shifted, shiftIntoRange(n, min, max))
	}
	return dedupeByPitch(filterInRange(shifted, min, max))
}

// RepairOutOfRangePreserveHighest first shifts the chord's highest pitch
// into range, then caps every other note at that adjusted pitch and shifts
// each individually. This keeps melodic contour intact on dense
// arrangements (spec.md 4.3).
func (fb *Fretboard) RepairOutOfRangePreserveHighest(notes []note.Note) []note.Note {
	if len(notes) == 0 {
		return nil
	}

	min, max := fb.tuning.PitchBounds()

	highestBefore := notes[0].Pitch
	for _, n := range notes[1:] {
		if n.Pitch > highestBefore {
			highestBefore = n.Pitch
		}
	}

	var highestAfter note.Pitch
	if highestBefore > max {
		above := highestBefore - max
		if above < 0 {
			above = 0
		}
		highestAfter = highestBefore - note.Pitch(math.Ceil(float64(above)/12)*12)
	} else {
		below := min - highestBefore
		if below < 0 {
			below = 0
		}
		highestAfter = highestBefore + note.Pitch(math.Ceil(float64(below)/12)*12)
	}

	effectiveMax := highestAfter

	shifted := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		shifted = append(shifted, shiftIntoRange(n, min, effectiveMax))
	}
	return dedupeByPitch(filterInRange(shifted, min, effectiveMax))
}

// shiftIntoRange octave-shifts a single note by the minimum number of full
// octaves needed to bring its pitch into [min, max].
func shiftIntoRange(n note.Note, min, max note.Pitch) note.Note {
	octaves := 0
	if n.Pitch > max {
		above := n.Pitch - max
		if above < 0 {
			above = 0
		}
		octaves = -int(math.Ceil(float64(above) / 12))
	}
	if n.Pitch < min {
		below := min - n.Pitch
		if below < 0 {
			below = 0
		}
		octaves = int(math.Ceil(float64(below) / 12))
	}
	return note.FromPitch(n.Pitch + note.Pitch(octaves*12))
}

func filterInRange(notes []note.Note, min, max note.Pitch) []note.Note {
	res := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		if n.Pitch >= min && n.Pitch <= max {
			res = append(res, n)
		}
	}
	return res
}

func dedupeByPitch(notes []note.Note) []note.Note {
	seen := make(map[note.Pitch]bool, len(notes))
	res := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		if !seen[n.Pitch] {
			seen[n.Pitch] = true
			res = append(res, n)
		}
	}
	return res
}

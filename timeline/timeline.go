// Package timeline merges note events and time-signature changes from a
// parsed piece into a single tick-ordered event stream, grouped into
// measures.
package timeline

import (
	"sort"

	"tabarranger/note"
)

// TimeSignature is a numerator/denominator pair.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// TimeSignatureChange marks a time-signature switch at a tick.
type TimeSignatureChange struct {
	Tick          int
	TimeSignature TimeSignature
}

// Event is a record at a tick, optionally carrying a chord (the set of
// Notes sounding at that tick) and/or a time-signature change.
type Event struct {
	Tick                int
	Notes               []note.Note
	TimeSignatureChange *TimeSignature
}

// Timeline is the tick-ordered merge of every non-drum note onset and every
// time-signature change.
type Timeline struct {
	events map[int]*Event
}

// Build merges notes (already filtered to non-drum onsets) and
// time-signature changes into a tick-keyed Timeline. If changes is empty, a
// single {0, 4, 4} entry is assumed, per spec.md 6.
func Build(notesByTick map[int][]note.Note, changes []TimeSignatureChange) *Timeline {
	tl := &Timeline{events: make(map[int]*Event)}

	if len(changes) == 0 {
		changes = []TimeSignatureChange{{Tick: 0, TimeSignature: TimeSignature{4, 4}}}
	}

	for tick, notes := range notesByTick {
		tl.eventAt(tick).Notes = append(tl.eventAt(tick).Notes, notes...)
	}
	for _, c := range changes {
		ts := c.TimeSignature
		tl.eventAt(c.Tick).TimeSignatureChange = &ts
	}

	return tl
}

func (tl *Timeline) eventAt(tick int) *Event {
	e, ok := tl.events[tick]
	if !ok {
		e = &Event{Tick: tick}
		tl.events[tick] = e
	}
	return e
}

// SortedTicks returns every tick with an event, in ascending order.
func (tl *Timeline) SortedTicks() []int {
	ticks := make([]int, 0, len(tl.events))
	for t := range tl.events {
		ticks = append(ticks, t)
	}
	sort.Ints(ticks)
	return ticks
}

// EventAt returns the event at a tick, if any.
func (tl *Timeline) EventAt(tick int) (*Event, bool) {
	e, ok := tl.events[tick]
	return e, ok
}

// EventsBetween returns every event with start <= tick < end, ordered by
// tick.
func (tl *Timeline) EventsBetween(start, end int) []*Event {
	var res []*Event
	for _, t := range tl.SortedTicks() {
		if t >= start && t < end {
			res = append(res, tl.events[t])
		}
	}
	return res
}

// Measure is a half-open tick interval [Start, End) carrying the time
// signature active during it.
type Measure struct {
	Index         int
	Start         int
	End           int
	TimeSignature TimeSignature
}

// Duration returns End - Start, always strictly positive for a well-formed
// Measure.
func (m Measure) Duration() int {
	return m.End - m.Start
}

// Length computes the measure length in ticks for a time signature and MIDI
// resolution: numerator * (4/denominator) * ticksPerQuarter. This is the
// signature-correct form (spec.md's Open Questions resolve in favor of
// this over the naive numerator*resolution form).
func Length(ts TimeSignature, ticksPerQuarter int) int {
	quarterNotes := float64(ts.Numerator) * (4.0 / float64(ts.Denominator))
	return int(quarterNotes * float64(ticksPerQuarter))
}

// BuildMeasures walks time-signature regions and emits contiguous,
// strictly-positive-duration Measures covering [changes[0].Tick, endTick).
// The last measure inside a region is truncated to the region's end tick.
func BuildMeasures(changes []TimeSignatureChange, endTick, ticksPerQuarter int) []Measure {
	if len(changes) == 0 {
		changes = []TimeSignatureChange{{Tick: 0, TimeSignature: TimeSignature{4, 4}}}
	}

	sorted := append([]TimeSignatureChange(nil), changes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })

	var measures []Measure
	index := 0

	for i, change := range sorted {
		regionStart := change.Tick
		regionEnd := endTick
		if i+1 < len(sorted) {
			regionEnd = sorted[i+1].Tick
		}
		if regionEnd <= regionStart {
			continue
		}

		step := Length(change.TimeSignature, ticksPerQuarter)
		if step <= 0 {
			step = 1
		}

		for start := regionStart; start < regionEnd; start += step {
			end := start + step
			if end > regionEnd {
				end = regionEnd
			}
			measures = append(measures, Measure{
				Index:         index,
				Start:         start,
				End:           end,
				TimeSignature: change.TimeSignature,
			})
			index++
		}
	}

	return measures
}

// Package tab assembles the decoded fingering sequence and the original
// timeline into the serializable tab document, and renders it to ASCII.
package tab

import (
	"tabarranger/arranger"
	"tabarranger/fretboard"
	"tabarranger/note"
	"tabarranger/timeline"
)

// NoteEntry is one fretted note within an Event.
type NoteEntry struct {
	Degree string `json:"degree"`
	Octave int    `json:"octave"`
	String int    `json:"string"`
	Fret   int    `json:"fret"`
}

// Event is one tick-keyed entry in a Measure.
type Event struct {
	Time                float64     `json:"time"`
	TimeTicks           int         `json:"time_ticks"`
	MeasureTiming       float64     `json:"measure_timing"`
	TimeSignatureChange []int       `json:"time_signature_change,omitempty"`
	Notes               []NoteEntry `json:"notes,omitempty"`
}

// Measure is an ordered group of Events.
type Measure struct {
	Events []Event `json:"events"`
}

// Tab is the finished document: the tuning it was arranged against plus
// every measure of decoded events.
type Tab struct {
	Tuning   []int     `json:"tuning"`
	Measures []Measure `json:"measures"`
}

// Assemble walks the timeline measure by measure and builds the Tab
// document, attaching decoded fingerings where the arranger selected one
// for an event (spec.md 4.7). toSeconds converts an absolute tick to the
// "time" field; events the arranger skipped as unreachable are still
// emitted, just without a "notes" field.
func Assemble(
	tl *timeline.Timeline,
	measures []timeline.Measure,
	tuning note.Tuning,
	result *arranger.Result,
	toSeconds func(tick int) float64,
) *Tab {
	byTick := make(map[int]arranger.EventResult, len(result.Events))
	for _, r := range result.Events {
		byTick[r.EventIndex] = r
	}

	tuningPitches := make([]int, tuning.NStrings())
	for i, s := range tuning.Strings() {
		tuningPitches[i] = int(s.Pitch)
	}

	t := &Tab{Tuning: tuningPitches}

	for _, m := range measures {
		md := Measure{}
		for _, ev := range tl.EventsBetween(m.Start, m.End) {
			out := Event{
				TimeTicks:     ev.Tick,
				Time:          toSeconds(ev.Tick),
				MeasureTiming: float64(ev.Tick-m.Start) / float64(m.Duration()),
			}
			if ev.TimeSignatureChange != nil {
				out.TimeSignatureChange = []int{ev.TimeSignatureChange.Numerator, ev.TimeSignatureChange.Denominator}
			}
			if len(ev.Notes) > 0 {
				if r, ok := byTick[ev.Tick]; ok {
					out.Notes = notesFromFingering(r.Fingering, tuning)
				}
			}
			md.Events = append(md.Events, out)
		}
		t.Measures = append(t.Measures, md)
	}

	return t
}

func notesFromFingering(f fretboard.Fingering, tuning note.Tuning) []NoteEntry {
	entries := make([]NoteEntry, len(f))
	for i, p := range f {
		open := tuning.Strings()[p.String]
		n := note.FromPitch(open.Pitch + note.Pitch(p.Fret))
		entries[i] = NoteEntry{
			Degree: n.Degree,
			Octave: n.Octave,
			String: p.String,
			Fret:   p.Fret,
		}
	}
	return entries
}

// RecomputeMeasureTiming re-derives measure_timing for every event from
// time_ticks, given the same measure boundaries Assemble used. Used to
// check the round-trip law in spec.md 8: re-parsing the emitted JSON and
// recomputing measure_timing reproduces the stored value exactly.
func RecomputeMeasureTiming(t *Tab, measures []timeline.Measure) [][]float64 {
	out := make([][]float64, len(t.Measures))
	for i, m := range t.Measures {
		if i >= len(measures) {
			break
		}
		bound := measures[i]
		row := make([]float64, len(m.Events))
		for j, ev := range m.Events {
			row[j] = float64(ev.TimeTicks-bound.Start) / float64(bound.Duration())
		}
		out[i] = row
	}
	return out
}

package tab

import (
	"math"
	"testing"

	"tabarranger/arranger"
	"tabarranger/difficulty"
	"tabarranger/fretboard"
	"tabarranger/note"
	"tabarranger/timeline"
)

func buildSampleTab(t *testing.T) (*Tab, []timeline.Measure) {
	t.Helper()

	tuning := note.StandardGuitar()
	changes := []timeline.TimeSignatureChange{{Tick: 0, TimeSignature: timeline.TimeSignature{Numerator: 4, Denominator: 4}}}
	notesByTick := map[int][]note.Note{
		0:   {note.FromPitch(64)},
		240: {note.FromPitch(59)},
	}
	tl := timeline.Build(notesByTick, changes)
	measures := timeline.BuildMeasures(changes, 1920, 480)

	result := &arranger.Result{
		Events: []arranger.EventResult{
			{EventIndex: 0, Fingering: fretboard.Fingering{{String: 0, Fret: 0}}},
			{EventIndex: 240, Fingering: fretboard.Fingering{{String: 1, Fret: 0}}},
		},
	}

	toSeconds := func(tick int) float64 { return float64(tick) / 960.0 }

	return Assemble(tl, measures, tuning, result, toSeconds), measures
}

// ── Assemble ─────────────────────────────────────────────────────────────

func TestAssembleAttachesNotesOnlyWhenDecoded(t *testing.T) {
	document, _ := buildSampleTab(t)
	if len(document.Measures) != 1 {
		t.Fatalf("expected 1 measure, got %d", len(document.Measures))
	}
	events := document.Measures[0].Events
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if len(events[0].Notes) != 1 || events[0].Notes[0].String != 0 || events[0].Notes[0].Fret != 0 {
		t.Errorf("event 0 notes = %+v, want [{string:0 fret:0}]", events[0].Notes)
	}
}

func TestAssembleTimeSignatureChangeAttachedAtTickZero(t *testing.T) {
	document, _ := buildSampleTab(t)
	ev := document.Measures[0].Events[0]
	if len(ev.TimeSignatureChange) != 2 || ev.TimeSignatureChange[0] != 4 || ev.TimeSignatureChange[1] != 4 {
		t.Errorf("time_signature_change = %v, want [4 4]", ev.TimeSignatureChange)
	}
}

// ── Round-trip laws (spec.md 8) ──────────────────────────────────────────

func TestJSONRoundTrip(t *testing.T) {
	document, _ := buildSampleTab(t)
	data, err := MarshalJSON(document)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	parsed, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(parsed.Measures) != len(document.Measures) {
		t.Fatalf("measure count = %d, want %d", len(parsed.Measures), len(document.Measures))
	}
}

func TestRecomputeMeasureTimingReproducesStoredValue(t *testing.T) {
	document, measures := buildSampleTab(t)
	data, err := MarshalJSON(document)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	parsed, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	recomputed := RecomputeMeasureTiming(parsed, measures)
	for mi, m := range parsed.Measures {
		for ei, ev := range m.Events {
			if math.Abs(recomputed[mi][ei]-ev.MeasureTiming) > 1e-12 {
				t.Errorf("measure %d event %d: recomputed %v, stored %v", mi, ei, recomputed[mi][ei], ev.MeasureTiming)
			}
		}
	}
}

// ── TabDifficulty (round-trip law, spec.md 8) ────────────────────────────

func TestTabDifficultyMatchesTransitionsTaken(t *testing.T) {
	document, _ := buildSampleTab(t)
	tuning := note.StandardGuitar()
	w := difficulty.DefaultWeights()

	got := TabDifficulty(document, tuning, w)

	f0 := fretboard.Fingering{{String: 0, Fret: 0}}
	f1 := fretboard.Fingering{{String: 1, Fret: 0}}
	want := difficulty.Difficulty(nil, tuning, f0, nil, false, w) +
		difficulty.Difficulty(nil, tuning, f1, f0, true, w)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TabDifficulty = %v, want %v", got, want)
	}
}

func TestTabDifficultySkipsEventsWithoutNotes(t *testing.T) {
	tuning := note.StandardGuitar()
	w := difficulty.DefaultWeights()

	document := &Tab{
		Tuning: []int{64, 59, 55, 50, 45, 40},
		Measures: []Measure{{Events: []Event{
			{Notes: []NoteEntry{{String: 0, Fret: 0}}},
			{}, // unreachable chord the arranger skipped: no notes attached
			{Notes: []NoteEntry{{String: 1, Fret: 0}}},
		}}},
	}

	got := TabDifficulty(document, tuning, w)

	f0 := fretboard.Fingering{{String: 0, Fret: 0}}
	f1 := fretboard.Fingering{{String: 1, Fret: 0}}
	want := difficulty.Difficulty(nil, tuning, f0, nil, false, w) +
		difficulty.Difficulty(nil, tuning, f1, f0, true, w)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TabDifficulty = %v, want %v (notes-less event must not break the previous-fingering chain)", got, want)
	}
}

// ── ASCII ────────────────────────────────────────────────────────────────

func TestASCIIOneLinePerString(t *testing.T) {
	document, _ := buildSampleTab(t)
	lines := ASCII(document)
	if len(lines) != len(document.Tuning) {
		t.Fatalf("got %d lines, want %d (one per string)", len(lines), len(document.Tuning))
	}
	for i, line := range lines {
		if len(line) < len("E ||") {
			t.Errorf("line %d = %q, want at least a degree header", i, line)
		}
	}
}

func TestASCIIAllLinesEqualLength(t *testing.T) {
	document, _ := buildSampleTab(t)
	lines := ASCII(document)
	want := len(lines[0])
	for i, line := range lines {
		if len(line) != want {
			t.Errorf("line %d has length %d, want %d (columns must align)", i, len(line), want)
		}
	}
}

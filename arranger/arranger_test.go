package arranger

import (
	"math"
	"reflect"
	"testing"

	"tabarranger/difficulty"
	"tabarranger/fretboard"
	"tabarranger/note"
)

func standardGuitar(t *testing.T) note.Tuning {
	t.Helper()
	return note.StandardGuitar()
}

// ── Chord ────────────────────────────────────────────────────────────────

func TestChordOfDedupesAndSorts(t *testing.T) {
	notes := []note.Note{note.FromPitch(64), note.FromPitch(59), note.FromPitch(64)}
	c := ChordOf(notes)
	if len(c) != 2 {
		t.Fatalf("expected 2 distinct pitches, got %d", len(c))
	}
	if c[0] != 59 || c[1] != 64 {
		t.Errorf("expected sorted [59, 64], got %v", c)
	}
}

// ── Arrange: scenarios from spec.md 8 ────────────────────────────────────

func TestArrangeEmptyInput(t *testing.T) {
	_, err := Arrange(standardGuitar(t), difficulty.DefaultWeights(), nil)
	if err != ErrEmptyInput {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestArrangeSingleLowNote(t *testing.T) {
	tuning := standardGuitar(t)
	events := []NoteEvent{{Index: 0, Notes: []note.Note{note.FromPitch(40)}}}
	result, err := Arrange(tuning, difficulty.DefaultWeights(), events)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 decoded event, got %d", len(result.Events))
	}
	f := result.Events[0].Fingering
	if len(f) != 1 || f[0].String != 5 || f[0].Fret != 0 {
		t.Errorf("expected {string:5, fret:0}, got %v", f)
	}
}

func TestArrangePrefersOpenPositionForE4(t *testing.T) {
	tuning := standardGuitar(t)
	events := []NoteEvent{{Index: 0, Notes: []note.Note{note.FromPitch(64)}}}
	result, err := Arrange(tuning, difficulty.DefaultWeights(), events)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	f := result.Events[0].Fingering
	if len(f) != 1 || f[0].String != 0 || f[0].Fret != 0 {
		t.Errorf("expected {string:0, fret:0} as the easiest isolated fingering, got %v", f)
	}
}

func TestArrangeTwoNoteChordDistinctStrings(t *testing.T) {
	tuning := standardGuitar(t)
	events := []NoteEvent{{Index: 0, Notes: []note.Note{note.FromPitch(64), note.FromPitch(59)}}}
	result, err := Arrange(tuning, difficulty.DefaultWeights(), events)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	f := result.Events[0].Fingering
	if len(f) != 2 {
		t.Fatalf("expected a 2-position fingering, got %v", f)
	}
	if f[0].String == f[1].String {
		t.Errorf("expected distinct strings, got %v", f)
	}
}

func TestArrangeHandPositionContinuity(t *testing.T) {
	tuning := standardGuitar(t)
	var events []NoteEvent
	for i := 0; i < 8; i++ {
		events = append(events, NoteEvent{Index: i, Notes: []note.Note{note.FromPitch(64)}})
	}
	for i := 8; i < 16; i++ {
		events = append(events, NoteEvent{Index: i, Notes: []note.Note{note.FromPitch(74)}})
	}

	result, err := Arrange(tuning, difficulty.DefaultWeights(), events)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if len(result.Events) != 16 {
		t.Fatalf("expected 16 decoded events, got %d", len(result.Events))
	}

	first := result.Events[0].Fingering
	for i := 1; i < 8; i++ {
		if !reflect.DeepEqual(result.Events[i].Fingering, first) {
			t.Errorf("event %d fingering %v differs from the first run's %v", i, result.Events[i].Fingering, first)
		}
	}

	secondRunFirst := result.Events[8].Fingering
	for i := 9; i < 16; i++ {
		if !reflect.DeepEqual(result.Events[i].Fingering, secondRunFirst) {
			t.Errorf("event %d fingering %v differs from the second run's %v", i, result.Events[i].Fingering, secondRunFirst)
		}
	}
}

// ── Transition matrix invariants (spec.md 8) ─────────────────────────────

func TestTransitionMatrixRowsSumToOne(t *testing.T) {
	tuning := standardGuitar(t)
	fb := fretboard.New(tuning)

	var fingerings []fretboard.Fingering
	fingerings = append(fingerings, fb.FingeringsForChord([][]fretboard.Position{fb.PositionsForPitch(64)})...)
	fingerings = append(fingerings, fb.FingeringsForChord([][]fretboard.Position{fb.PositionsForPitch(59)})...)

	stats := difficulty.Precompute(fb, tuning, fingerings)
	trans := buildTransitionMatrix(stats, tuning, difficulty.DefaultWeights())

	for i, row := range trans {
		sum := 0.0
		for _, p := range row {
			if p < 0 {
				t.Errorf("row %d has a negative entry %v", i, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestTransitionMatrixParallelMatchesSequential(t *testing.T) {
	tuning := standardGuitar(t)
	fb := fretboard.New(tuning)

	var fingerings []fretboard.Fingering
	for _, pitch := range []note.Pitch{64, 59, 55, 50} {
		fingerings = append(fingerings, fb.FingeringsForChord([][]fretboard.Position{fb.PositionsForPitch(pitch)})...)
	}
	stats := difficulty.Precompute(fb, tuning, fingerings)
	w := difficulty.DefaultWeights()

	parallel := buildTransitionMatrix(stats, tuning, w)

	sequential := make([][]float64, len(stats))
	for i := range stats {
		sequential[i] = buildTransitionRow(stats, i, tuning, w)
	}

	for i := range parallel {
		for j := range parallel[i] {
			if math.Abs(parallel[i][j]-sequential[i][j]) > 1e-12 {
				t.Errorf("trans[%d][%d] = %v (parallel) vs %v (sequential)", i, j, parallel[i][j], sequential[i][j])
			}
		}
	}
}

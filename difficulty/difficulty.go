// Package difficulty scores fingerings for physical playability and
// continuity with the previously played fingering.
package difficulty

import (
	"math"

	"tabarranger/fretboard"
	"tabarranger/note"
)

// SpanNormalization is the maximum expected fret span, used to normalize
// the span score to [0, 1] (spec.md 4.4).
const SpanNormalization = 5.0

// Weights are the difficulty component weights, all defaulting to 1.0.
type Weights struct {
	B               float64 // Laplace scale for dheight
	Height          float64 // penalty on absolute neck position
	Length          float64 // penalty on span within a chord
	NChangedStrings float64 // penalty on re-anchoring
}

// DefaultWeights returns the all-1.0 weight set.
func DefaultWeights() Weights {
	return Weights{B: 1, Height: 1, Length: 1, NChangedStrings: 1}
}

// Stats holds per-fingering invariants cached so that a row of the
// transition matrix costs O(|F|) arithmetic, not O(|F|*|f|) (spec.md 4.6
// performance notes).
type Stats struct {
	RawHeight      float64
	HeightScore    float64
	SpanScore      float64
	AllStrings     map[int]bool
	NonOpenStrings map[int]bool
	NNotes         int
}

// Precompute builds a Stats entry for every fingering in fingerings.
func Precompute(fb *fretboard.Fretboard, tuning note.Tuning, fingerings []fretboard.Fingering) []Stats {
	stats := make([]Stats, len(fingerings))
	for i, f := range fingerings {
		rh := rawHeightOf(f)
		stats[i] = Stats{
			RawHeight:      rh,
			HeightScore:    heightScore(rh, tuning),
			SpanScore:      spanScore(f),
			AllStrings:     stringSet(f),
			NonOpenStrings: nonOpenStringSet(f),
			NNotes:         len(f),
		}
	}
	return stats
}

func stringSet(f fretboard.Fingering) map[int]bool {
	m := make(map[int]bool, len(f))
	for _, p := range f {
		m[p.String] = true
	}
	return m
}

func nonOpenStringSet(f fretboard.Fingering) map[int]bool {
	m := make(map[int]bool, len(f))
	for _, p := range f {
		if p.Fret != 0 {
			m[p.String] = true
		}
	}
	return m
}

// rawHeightOf returns the arithmetic midpoint of the highest and lowest
// non-open frets, or 0 if every position is open (no predecessor to fall
// back to -- callers wanting the fallback use RawHeightWithFallback).
func rawHeightOf(f fretboard.Fingering) float64 {
	var frets []int
	for _, p := range f {
		if p.Fret != 0 {
			frets = append(frets, p.Fret)
		}
	}
	if len(frets) == 0 {
		return 0
	}
	minF, maxF := frets[0], frets[0]
	for _, fr := range frets[1:] {
		if fr < minF {
			minF = fr
		}
		if fr > maxF {
			maxF = fr
		}
	}
	return float64(minF+maxF) / 2
}

// RawHeightWithFallback returns rawHeightOf(f), or the previous fingering's
// raw height if f is entirely open strings, or 0 if there is no previous
// fingering (spec.md 4.4, "Let a Fingering f have raw height...").
func RawHeightWithFallback(f, prev fretboard.Fingering, hasPrev bool) float64 {
	allOpen := true
	for _, p := range f {
		if p.Fret != 0 {
			allOpen = false
			break
		}
	}
	if !allOpen {
		return rawHeightOf(f)
	}
	if !hasPrev {
		return 0
	}
	return RawHeightWithFallback(prev, nil, false)
}

func heightScore(rawHeight float64, tuning note.Tuning) float64 {
	return rawHeight / float64(tuning.NFrets())
}

func spanScore(f fretboard.Fingering) float64 {
	var frets []int
	for _, p := range f {
		if p.Fret != 0 {
			frets = append(frets, p.Fret)
		}
	}
	if len(frets) == 0 {
		return 0
	}
	minF, maxF := frets[0], frets[0]
	for _, fr := range frets[1:] {
		if fr < minF {
			minF = fr
		}
		if fr > maxF {
			maxF = fr
		}
	}
	return float64(maxF-minF) / SpanNormalization
}

func dheightScore(rawHeight, prevRawHeight float64, tuning note.Tuning) float64 {
	return math.Abs(rawHeight-prevRawHeight) / float64(tuning.NFrets())
}

// changedStringsScore is (|f| - |strings(f) intersect fretted_strings(prev)|)
// / nstrings. Open strings are excluded from the *previous* fingering's side
// of the comparison only -- see spec.md Open Questions and DESIGN.md.
func changedStringsScore(f fretboard.Fingering, prevNonOpen map[int]bool, tuning note.Tuning) float64 {
	used := stringSet(f)
	overlap := 0
	for s := range used {
		if prevNonOpen[s] {
			overlap++
		}
	}
	n := len(f) - overlap
	return float64(n) / float64(tuning.NStrings())
}

// laplace evaluates the Laplace distribution density at x with scale b and
// location 0.
func laplace(x, b float64) float64 {
	return (1 / (2 * b)) * math.Exp(-math.Abs(x)/b)
}

// Easiness computes easiness(f | prev) per spec.md 4.4. hasPrev is false
// when f has no predecessor in the sequence being scored -- the HMM never
// calls this with hasPrev=false (it seeds its initial distribution from
// IsolatedEasiness instead), but tab.TabDifficulty's re-scoring walk does,
// for the first position in the tab.
func Easiness(fb *fretboard.Fretboard, tuning note.Tuning, f, prev fretboard.Fingering, hasPrev bool, w Weights) float64 {
	rawHeight := RawHeightWithFallback(f, prev, hasPrev)
	var prevRawHeight float64
	if hasPrev {
		prevRawHeight = rawHeightOf(prev)
	}

	height := heightScore(rawHeight, tuning)
	dheight := dheightScore(rawHeight, prevRawHeight, tuning)
	span := spanScore(f)

	var nChangedStrings float64
	if hasPrev {
		nChangedStrings = changedStringsScore(f, nonOpenStringSet(prev), tuning)
	} else {
		nChangedStrings = changedStringsScore(f, map[int]bool{}, tuning)
	}

	return laplace(dheight, w.B) *
		1 / (1 + height*w.Height) *
		1 / (1 + span*w.Length) *
		1 / (1 + nChangedStrings*w.NChangedStrings)
}

// Difficulty is 1/Easiness.
func Difficulty(fb *fretboard.Fretboard, tuning note.Tuning, f, prev fretboard.Fingering, hasPrev bool, w Weights) float64 {
	return 1 / Easiness(fb, tuning, f, prev, hasPrev, w)
}

// IsolatedEasiness computes easiness with no predecessor: it seeds the
// HMM's initial distribution.
func IsolatedEasiness(tuning note.Tuning, f fretboard.Fingering) float64 {
	rawHeight := rawHeightOf(f)
	height := heightScore(rawHeight, tuning)
	span := spanScore(f)
	return 1 / (1 + height) * 1 / (1 + span)
}

// IsolatedDifficulty is 1/IsolatedEasiness.
func IsolatedDifficulty(tuning note.Tuning, f fretboard.Fingering) float64 {
	return 1 / IsolatedEasiness(tuning, f)
}

// EasinessFromStats is the O(1)-per-call variant used by the transition
// matrix row builder: it consumes precomputed Stats instead of walking
// fingering slices. This is the "cache per-fingering invariants" path
// demanded by spec.md 4.6's performance notes.
func EasinessFromStats(cur, prev Stats, hasPrev bool, nstrings, nfrets int, w Weights) float64 {
	rawHeight := cur.RawHeight
	if cur.SpanScore == 0 && len(cur.NonOpenStrings) == 0 {
		// f is entirely open strings: fall back to the previous raw height.
		if hasPrev {
			rawHeight = prev.RawHeight
		} else {
			rawHeight = 0
		}
	}

	var prevRawHeight float64
	if hasPrev {
		prevRawHeight = prev.RawHeight
	}

	height := rawHeight / float64(nfrets)
	dheight := math.Abs(rawHeight-prevRawHeight) / float64(nfrets)
	span := cur.SpanScore

	overlap := 0
	if hasPrev {
		for s := range cur.AllStrings {
			if prev.NonOpenStrings[s] {
				overlap++
			}
		}
	}
	nChangedStrings := float64(cur.NNotes-overlap) / float64(nstrings)

	return laplace(dheight, w.B) *
		1 / (1 + height*w.Height) *
		1 / (1 + span*w.Length) *
		1 / (1 + nChangedStrings*w.NChangedStrings)
}

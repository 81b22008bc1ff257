package arranger

import (
	"math"
	"runtime"
	"sync"

	"tabarranger/difficulty"
	"tabarranger/fretboard"
	"tabarranger/note"
)

// emissionMatrix is the (|F|, |C|) 0/1 emission matrix E, built
// incrementally as new chords are encountered (spec.md 4.6).
type emissionMatrix struct {
	cols int
	rows [][]bool // rows[k] has length cols
}

// expand extends E with newRows new fingering rows (zero-padded over the
// existing columns) and exactly one new column, whose value is 1 on the new
// rows and 0 elsewhere.
func (e *emissionMatrix) expand(newRows int) {
	e.cols++
	for i := range e.rows {
		e.rows[i] = append(e.rows[i], false)
	}
	for i := 0; i < newRows; i++ {
		row := make([]bool, e.cols)
		row[e.cols-1] = true
		e.rows = append(e.rows, row)
	}
}

func (e *emissionMatrix) emits(k, j int) bool {
	return e.rows[k][j]
}

func (e *emissionMatrix) nrows() int {
	return len(e.rows)
}

// DegenerateFloor is the minimum-probability floor injected when a
// transition row's raw easiness sum underflows to zero (spec.md 7,
// ErrDegenerateTransition).
const DegenerateFloor = 1.0 / (1 << 52) // 2^-52

// buildTransitionMatrix builds T of shape (|F|, |F|): T[i][j] =
// easiness(f_j | f_i) / sum_k easiness(f_k | f_i). Each row is independent,
// so rows are built concurrently (spec.md 5); Viterbi itself stays
// sequential.
func buildTransitionMatrix(stats []difficulty.Stats, tuning note.Tuning, w difficulty.Weights) [][]float64 {
	n := len(stats)
	t := make([][]float64, n)

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	rowIdx := make(chan int)
	var wg sync.WaitGroup
	for w2 := 0; w2 < workers; w2++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rowIdx {
				t[i] = buildTransitionRow(stats, i, tuning, w)
			}
		}()
	}
	for i := 0; i < n; i++ {
		rowIdx <- i
	}
	close(rowIdx)
	wg.Wait()

	return t
}

func buildTransitionRow(stats []difficulty.Stats, i int, tuning note.Tuning, w difficulty.Weights) []float64 {
	n := len(stats)
	easiness := make([]float64, n)
	sum := 0.0
	for j := 0; j < n; j++ {
		e := difficulty.EasinessFromStats(stats[j], stats[i], true, tuning.NStrings(), tuning.NFrets(), w)
		easiness[j] = e
		sum += e
	}

	row := make([]float64, n)
	if sum == 0 || math.IsNaN(sum) {
		// Degenerate transition: floor every entry so the row still sums to 1.
		floorSum := float64(n) * DegenerateFloor
		for j := range row {
			row[j] = DegenerateFloor / floorSum
		}
		return row
	}

	for j := range row {
		row[j] = easiness[j] / sum
	}
	return row
}

// initialDistribution computes pi for the first chord's fingerings via
// isolated difficulty, zero elsewhere.
func initialDistribution(tuning note.Tuning, firstChordFingerings []fretboard.Fingering, totalStates int) []float64 {
	pi := make([]float64, totalStates)

	easiness := make([]float64, len(firstChordFingerings))
	sum := 0.0
	for i, f := range firstChordFingerings {
		e := difficulty.IsolatedEasiness(tuning, f)
		easiness[i] = e
		sum += e
	}
	if sum == 0 {
		sum = 1
	}
	for i, e := range easiness {
		pi[i] = e / sum
	}
	return pi
}

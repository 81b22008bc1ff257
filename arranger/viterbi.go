package arranger

import "math"

// viterbiDecode runs the classic log-space Viterbi recurrence over
// observations obs (values 0..|C|-1, indexing into emit's columns), given
// the initial distribution pi, the transition matrix trans (|F|x|F|), and
// the emission matrix emit. It returns the most likely state sequence,
// length len(obs), each entry indexing into trans/emit's rows.
//
// Zero probabilities map to -Inf in log space; ties between candidate
// predecessors are broken in favor of the lower state index, matching the
// deterministic behavior spec.md 5 requires for reproducible output.
func viterbiDecode(obs []int, pi []float64, trans [][]float64, emit *emissionMatrix) []int {
	n := len(obs)
	nstates := len(pi)
	if n == 0 || nstates == 0 {
		return nil
	}

	logTrans := make([][]float64, nstates)
	for i, row := range trans {
		logTrans[i] = make([]float64, len(row))
		for j, p := range row {
			logTrans[i][j] = logOf(p)
		}
	}

	delta := make([][]float64, n)
	psi := make([][]int, n)
	for t := range delta {
		delta[t] = make([]float64, nstates)
		psi[t] = make([]int, nstates)
	}

	for s := 0; s < nstates; s++ {
		e := 0.0
		if emit.emits(s, obs[0]) {
			e = 1
		}
		delta[0][s] = logOf(pi[s]) + logOf(e)
		psi[0][s] = -1
	}

	for t := 1; t < n; t++ {
		for s := 0; s < nstates; s++ {
			best := math.Inf(-1)
			bestPrev := 0
			for sp := 0; sp < nstates; sp++ {
				cand := delta[t-1][sp] + logTrans[sp][s]
				if cand > best {
					best = cand
					bestPrev = sp
				}
				// cand == best: keep the lower-index sp already chosen,
				// since sp increases monotonically in this loop.
			}
			e := 0.0
			if emit.emits(s, obs[t]) {
				e = 1
			}
			delta[t][s] = best + logOf(e)
			psi[t][s] = bestPrev
		}
	}

	path := make([]int, n)
	best := math.Inf(-1)
	bestState := 0
	for s := 0; s < nstates; s++ {
		if delta[n-1][s] > best {
			best = delta[n-1][s]
			bestState = s
		}
	}
	path[n-1] = bestState
	for t := n - 2; t >= 0; t-- {
		path[t] = psi[t+1][path[t+1]]
	}

	return path
}

func logOf(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return math.Log(p)
}

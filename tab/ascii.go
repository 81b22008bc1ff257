package tab

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tabarranger/note"
)

// ASCII renders a Tab as one line per string, high string first, each
// prefixed with its degree name and "||". Fret digits are separated by
// dash spacers sized to the gap between consecutive events' measure_timing,
// and every measure ends with "|". All lines are padded to equal length
// after each event so columns stay aligned (spec.md 6, grounded on
// tuttut.logic.tab.Tab.to_string / fill_measure_str).
func ASCII(t *Tab) []string {
	nstrings := len(t.Tuning)
	lines := make([]strings.Builder, nstrings)
	for s := 0; s < nstrings; s++ {
		degree := note.FromPitch(note.Pitch(t.Tuning[s])).Degree
		lines[s].WriteString(fmt.Sprintf("%-2s||", degree))
	}

	for _, m := range t.Measures {
		for i, ev := range m.Events {
			frets := make(map[int]int, len(ev.Notes))
			for _, n := range ev.Notes {
				frets[n.String] = n.Fret
			}

			spacer := 1
			if i+1 < len(m.Events) {
				gap := m.Events[i+1].MeasureTiming - ev.MeasureTiming
				if computed := int(math.Floor(gap * 16)); computed > 1 {
					spacer = computed
				}
			}

			for s := 0; s < nstrings; s++ {
				if fret, ok := frets[s]; ok {
					lines[s].WriteString(strconv.Itoa(fret))
				}
				for j := 0; j < spacer; j++ {
					lines[s].WriteString("-")
				}
			}
			padLines(lines)
		}
		for s := 0; s < nstrings; s++ {
			lines[s].WriteString("|")
		}
	}

	out := make([]string, nstrings)
	for s := range lines {
		out[s] = lines[s].String()
	}
	return out
}

// padLines pads every line to the length of the longest so that the next
// event's column starts at the same horizontal position on every string.
func padLines(lines []strings.Builder) {
	max := 0
	for _, l := range lines {
		if l.Len() > max {
			max = l.Len()
		}
	}
	for i := range lines {
		for lines[i].Len() < max {
			lines[i].WriteString("-")
		}
	}
}

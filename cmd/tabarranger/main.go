// Command tabarranger converts a standard MIDI file into fretted-string
// tablature: arrange writes ASCII and JSON tabs, view pages through a
// previously arranged JSON tab, and tunings lists the configured presets.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tabarranger/arranger"
	"tabarranger/config"
	"tabarranger/fretboard"
	"tabarranger/midiinput"
	"tabarranger/note"
	"tabarranger/render"
	"tabarranger/tab"
	"tabarranger/timeline"
)

var (
	configPath      string
	tuningName      string
	preserveHighest bool
)

func main() {
	args := parseArgs(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "arrange":
		if len(args) < 2 {
			fmt.Println("Error: arrange requires a MIDI file")
			printUsage()
			os.Exit(1)
		}
		stem := ""
		if len(args) >= 3 {
			stem = args[2]
		}
		if err := runArrange(args[1], stem); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case "view":
		if len(args) < 2 {
			fmt.Println("Error: view requires a JSON tab file")
			printUsage()
			os.Exit(1)
		}
		if err := runView(args[1]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case "tunings":
		listTunings()
	default:
		printUsage()
		os.Exit(1)
	}
}

// parseArgs extracts flags in the teacher's hand-rolled style (both
// "--flag value" and "--flag=value" are accepted) and returns remaining
// positional args.
func parseArgs(args []string) []string {
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				fmt.Println("Error: --config requires a path")
				os.Exit(1)
			}
			configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--tuning":
			if i+1 >= len(args) {
				fmt.Println("Error: --tuning requires a preset name")
				os.Exit(1)
			}
			tuningName = args[i+1]
			i++
		case strings.HasPrefix(arg, "--tuning="):
			tuningName = strings.TrimPrefix(arg, "--tuning=")
		case arg == "--preserve-highest":
			preserveHighest = true
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  tabarranger arrange <file.mid> [out-stem]")
	fmt.Println("  tabarranger view <file.json>")
	fmt.Println("  tabarranger tunings")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --config <weights.yaml>")
	fmt.Println("  --tuning <preset-name>")
	fmt.Println("  --preserve-highest")
	fmt.Println("  --help, -h")
}

func loadConfig() (*config.Document, error) {
	doc := config.Default()
	if configPath != "" {
		var err error
		doc, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	if tuningName != "" {
		doc.Tuning = tuningName
	}
	return doc, nil
}

func runArrange(midiPath, stem string) error {
	if stem == "" {
		stem = strings.TrimSuffix(midiPath, ".mid")
	}

	doc, err := loadConfig()
	if err != nil {
		return err
	}
	tuning, err := doc.BuildTuning()
	if err != nil {
		return err
	}

	input, err := midiinput.LoadFile(midiPath)
	if err != nil {
		return err
	}

	notesByTick := make(map[int][]note.Note)
	for _, inst := range input.Instruments {
		if inst.IsDrum {
			continue
		}
		for _, span := range inst.Notes {
			notesByTick[span.OnsetTick] = append(notesByTick[span.OnsetTick], note.FromPitch(span.Pitch))
		}
	}

	tl := timeline.Build(notesByTick, input.TimeSignatures)

	endTick := 0
	for _, t := range tl.SortedTicks() {
		if t > endTick {
			endTick = t
		}
	}
	endTick++
	measures := timeline.BuildMeasures(input.TimeSignatures, endTick, input.TicksPerQuarter)

	fb := fretboard.New(tuning)
	var events []arranger.NoteEvent
	for _, tick := range tl.SortedTicks() {
		ev, _ := tl.EventAt(tick)
		if len(ev.Notes) == 0 {
			continue
		}
		var repaired []note.Note
		if preserveHighest {
			repaired = fb.RepairOutOfRangePreserveHighest(ev.Notes)
		} else {
			repaired = fb.RepairOutOfRange(ev.Notes)
		}
		if len(repaired) == 0 {
			continue
		}
		events = append(events, arranger.NoteEvent{Index: tick, Notes: repaired})
	}

	if len(events) == 0 {
		return arranger.ErrEmptyInput
	}

	result, err := arranger.Arrange(tuning, doc.DifficultyWeights(), events)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %v\n", w)
	}

	document := tab.Assemble(tl, measures, tuning, result, input.ToSeconds)

	asciiLines := tab.ASCII(document)
	if err := os.WriteFile(stem+".txt", []byte(strings.Join(asciiLines, "\n")+"\n"), 0o644); err != nil {
		return err
	}

	jsonBytes, err := tab.MarshalJSON(document)
	if err != nil {
		return err
	}
	if err := os.WriteFile(stem+".json", jsonBytes, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s.txt and %s.json\n", stem, stem)
	return nil
}

func runView(jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return err
	}
	document, err := tab.ParseJSON(data)
	if err != nil {
		return err
	}

	lines := tab.ASCII(document)
	p := tea.NewProgram(render.NewPager(lines), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listTunings() {
	fmt.Println("Configured tuning presets:")
	for name, pitches := range note.Tunings {
		strs := make([]string, len(pitches))
		for i, p := range pitches {
			strs[i] = note.FromPitch(p).String()
		}
		fmt.Printf("  %-18s %s\n", name, strings.Join(strs, " "))
	}
}

// Package config loads the YAML-driven difficulty weights and tuning
// choice an arrangement run is configured with.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tabarranger/difficulty"
	"tabarranger/note"
)

// Weights mirrors difficulty.Weights with YAML tags for on-disk
// configuration (spec.md 6, "Configuration").
type Weights struct {
	B               float64 `yaml:"b"`
	Height          float64 `yaml:"height"`
	Length          float64 `yaml:"length"`
	NChangedStrings float64 `yaml:"n_changed_strings"`
}

func (w Weights) toDifficulty() difficulty.Weights {
	return difficulty.Weights{B: w.B, Height: w.Height, Length: w.Length, NChangedStrings: w.NChangedStrings}
}

// Document is the top-level YAML configuration shape.
type Document struct {
	Tuning  string   `yaml:"tuning"`
	Capo    int      `yaml:"capo,omitempty"`
	Weights *Weights `yaml:"weights,omitempty"`
}

// Default returns the all-1.0 weight set and the standard tuning preset,
// with no capo.
func Default() *Document {
	return &Document{
		Tuning:  "standard",
		Weights: &Weights{B: 1, Height: 1, Length: 1, NChangedStrings: 1},
	}
}

// Load reads and parses a YAML configuration file, defaulting any field
// left unset.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}

	doc := Default()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if doc.Tuning == "" {
		doc.Tuning = "standard"
	}
	if doc.Weights == nil {
		doc.Weights = &Weights{B: 1, Height: 1, Length: 1, NChangedStrings: 1}
	}

	return doc, nil
}

// DifficultyWeights converts the document's weights to difficulty.Weights.
func (d *Document) DifficultyWeights() difficulty.Weights {
	return d.Weights.toDifficulty()
}

// BuildTuning resolves the document's named tuning preset, applies the
// capo transposition, and constructs a note.Tuning. The capo shifts every
// open string's pitch upward by the given number of semitones -- a
// simplified, shape-agnostic stand-in for tuttut's shape-preserving capo
// handling (see DESIGN.md).
func (d *Document) BuildTuning() (note.Tuning, error) {
	pitches, ok := note.Tunings[d.Tuning]
	if !ok {
		return note.Tuning{}, fmt.Errorf("config: unknown tuning preset %q", d.Tuning)
	}

	shifted := make([]note.Pitch, len(pitches))
	for i, p := range pitches {
		shifted[i] = p + note.Pitch(d.Capo)
	}

	return note.NewTuning(shifted, 20)
}

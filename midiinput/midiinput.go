// Package midiinput reads a standard MIDI file into the shape the
// arranger core consumes: ticks-per-quarter, time-signature changes,
// per-instrument note events, and a monotonic tick-to-seconds function.
package midiinput

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"tabarranger/note"
	"tabarranger/timeline"
)

// drumChannel is the 0-indexed GM percussion channel (channel 10,
// 1-indexed).
const drumChannel = 9

// NoteSpan is one decoded note-on/note-off pair.
type NoteSpan struct {
	Pitch      note.Pitch
	OnsetTick  int
	OffsetTick int
	Velocity   uint8
}

// Instrument groups the note spans found on one MIDI channel, merged across
// every SMF track.
type Instrument struct {
	IsDrum bool
	Notes  []NoteSpan
}

// Input is everything LoadFile recovers from a MIDI file, shaped to feed
// directly into timeline.Build and the arranger.
type Input struct {
	TicksPerQuarter int
	TimeSignatures  []timeline.TimeSignatureChange
	Instruments     []Instrument
	ToSeconds       func(tick int) float64
}

// LoadFile reads an SMF file from path and decodes it into an Input.
func LoadFile(path string) (*Input, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("midiinput: reading %q: %w", path, err)
	}
	return decode(s)
}

func decode(s *smf.SMF) (*Input, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("midiinput: SMPTE-framed timing is not supported")
	}
	ticksPerQuarter := int(mt.Resolution())

	in := &Input{TicksPerQuarter: ticksPerQuarter}

	var tempoChanges []tempoChange
	openByChannel := make(map[uint8]map[uint8]openNote) // channel -> pitch -> onset
	instrumentByChannel := make(map[uint8]*Instrument)

	for _, track := range s.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			var bpm float64
			if msg.GetMetaTempo(&bpm) {
				tempoChanges = append(tempoChanges, tempoChange{tick: tick, bpm: bpm})
				continue
			}

			var num, denom uint8
			if msg.GetMetaTimeSig(&num, &denom, nil, nil) {
				in.TimeSignatures = append(in.TimeSignatures, timeline.TimeSignatureChange{
					Tick: int(tick),
					TimeSignature: timeline.TimeSignature{
						Numerator:   int(num),
						Denominator: int(denom),
					},
				})
				continue
			}

			var channel, key, velocity uint8
			if msg.GetNoteStart(&channel, &key, &velocity) {
				instrumentFor(instrumentByChannel, channel)
				byPitch, ok := openByChannel[channel]
				if !ok {
					byPitch = make(map[uint8]openNote)
					openByChannel[channel] = byPitch
				}
				byPitch[key] = openNote{tick: tick, velocity: velocity}
				continue
			}
			if msg.GetNoteEnd(&channel, &key) {
				byPitch := openByChannel[channel]
				on, started := byPitch[key]
				if !started {
					continue
				}
				delete(byPitch, key)
				inst := instrumentFor(instrumentByChannel, channel)
				inst.Notes = append(inst.Notes, NoteSpan{
					Pitch:      note.Pitch(key),
					OnsetTick:  int(on.tick),
					OffsetTick: int(tick),
					Velocity:   on.velocity,
				})
			}
		}
	}

	channels := make([]uint8, 0, len(instrumentByChannel))
	for ch := range instrumentByChannel {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	for _, ch := range channels {
		in.Instruments = append(in.Instruments, *instrumentByChannel[ch])
	}

	if len(in.TimeSignatures) == 0 {
		in.TimeSignatures = []timeline.TimeSignatureChange{{Tick: 0, TimeSignature: timeline.TimeSignature{Numerator: 4, Denominator: 4}}}
	}

	in.ToSeconds = buildTickToSeconds(tempoChanges, ticksPerQuarter)

	return in, nil
}

type openNote struct {
	tick     int64
	velocity uint8
}

type tempoChange struct {
	tick int64
	bpm  float64
}

func instrumentFor(m map[uint8]*Instrument, channel uint8) *Instrument {
	inst, ok := m[channel]
	if !ok {
		inst = &Instrument{IsDrum: channel == drumChannel}
		m[channel] = inst
	}
	return inst
}

// buildTickToSeconds returns a monotonic tick->seconds function, piecewise
// linear in seconds-per-tick between tempo changes (recovering the role
// pretty_midi.tick_to_time plays in the Python original). A file with no
// tempo meta events is assumed to run at 120 BPM throughout.
func buildTickToSeconds(changes []tempoChange, ticksPerQuarter int) func(tick int) float64 {
	if len(changes) == 0 {
		changes = []tempoChange{{tick: 0, bpm: 120}}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })
	if changes[0].tick != 0 {
		changes = append([]tempoChange{{tick: 0, bpm: 120}}, changes...)
	}

	secondsAtChange := make([]float64, len(changes))
	for i := 1; i < len(changes); i++ {
		deltaTicks := changes[i].tick - changes[i-1].tick
		secPerTick := 60.0 / (changes[i-1].bpm * float64(ticksPerQuarter))
		secondsAtChange[i] = secondsAtChange[i-1] + float64(deltaTicks)*secPerTick
	}

	return func(tick int) float64 {
		t64 := int64(tick)
		idx := 0
		for i, c := range changes {
			if c.tick <= t64 {
				idx = i
			} else {
				break
			}
		}
		secPerTick := 60.0 / (changes[idx].bpm * float64(ticksPerQuarter))
		return secondsAtChange[idx] + float64(t64-changes[idx].tick)*secPerTick
	}
}

package audio

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
)

//go:embed cue.wav
var cueWav []byte

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxErr  error
	globalAudioCtxOnce sync.Once
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Player plays the notification cue once per call to Play
type Player struct {
	mu sync.Mutex

	format   *wavFormat
	pcm      []byte
	parseErr error

	current *oto.Player
}

// NewPlayer creates a player for the bundled cue sound
func NewPlayer() *Player {
	return NewPlayerFromWAV(cueWav)
}

// NewPlayerFromWAV creates a player for the given WAV data
func NewPlayerFromWAV(wavData []byte) *Player {
	format, pcm, err := parseWAV(wavData)
	if err == nil && format.BitDepth != 16 {
		err = fmt.Errorf("unsupported bit depth %d, want 16", format.BitDepth)
	}
	return &Player{format: format, pcm: pcm, parseErr: err}
}

// initAudioContext initializes the global audio context once
func initAudioContext(format *wavFormat) (*oto.Context, error) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxErr = fmt.Errorf("failed to initialize audio context: %w", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		log.Println("Audio context initialized successfully")
	})
	return globalAudioCtx, globalAudioCtxErr
}

// Play starts the cue and returns without waiting for it to finish.
// A cue that is still playing is restarted.
func (p *Player) Play() error {
	if p.parseErr != nil {
		return fmt.Errorf("invalid cue sound: %w", p.parseErr)
	}

	ctx, err := initAudioContext(p.format)
	if err != nil {
		return err
	}
	if ctx == nil {
		return errors.New("audio context not ready")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.current = ctx.NewPlayer(bytes.NewReader(p.pcm))
	p.current.Play()
	return nil
}

// Stop stops the audio playback
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.current.Pause()
	if err := p.current.Close(); err != nil {
		log.Printf("Failed to close audio player: %v", err)
	}
	p.current = nil
}

// parseWAV parses a WAV file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	// Read RIFF header
	riff := make([]byte, 4)
	if _, err := io.ReadFull(reader, riff); err != nil {
		return nil, nil, err
	}
	if string(riff) != "RIFF" {
		return nil, nil, errors.New("missing RIFF header")
	}

	// Skip file size
	if _, err := reader.Seek(4, io.SeekCurrent); err != nil {
		return nil, nil, err
	}

	// Read WAVE header
	wave := make([]byte, 4)
	if _, err := io.ReadFull(reader, wave); err != nil {
		return nil, nil, err
	}
	if string(wave) != "WAVE" {
		return nil, nil, errors.New("missing WAVE header")
	}

	format := &wavFormat{}
	var audioData []byte

	// Read chunks
	for audioData == nil {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var header struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
				return nil, nil, err
			}
			format.Channels = int(header.NumChannels)
			format.SampleRate = int(header.SampleRate)
			format.BitDepth = int(header.BitsPerSample)

			// Skip any extra format bytes
			if chunkSize > 16 {
				if _, err := reader.Seek(int64(chunkSize-16), io.SeekCurrent); err != nil {
					return nil, nil, err
				}
			}
		case "data":
			audioData = make([]byte, chunkSize)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, fmt.Errorf("truncated data chunk: %w", err)
			}
		default:
			// Skip unknown chunk
			if _, err := reader.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		}
	}

	if format.SampleRate == 0 {
		return nil, nil, errors.New("missing fmt chunk")
	}
	if audioData == nil {
		return nil, nil, errors.New("missing data chunk")
	}

	return format, audioData, nil
}

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// wavData holds the decoded first-channel PCM samples plus stream properties.
type wavData struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Samples       []float64
	Duration      float64
	FileSizeMB    float64
}

// readWAV decodes a PCM RIFF/WAVE file. Only 8/16/32-bit integer PCM is
// supported; stereo input keeps the first channel.
func readWAV(path string) (*wavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, fmt.Errorf("reading RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	w := &wavData{FileSizeMB: float64(info.Size()) / (1024 * 1024)}
	var raw []byte

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("reading chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(f, body); err != nil {
				return nil, fmt.Errorf("reading fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return nil, fmt.Errorf("fmt chunk too short")
			}
			w.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			w.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			w.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
		case "data":
			raw = make([]byte, size)
			if _, err := io.ReadFull(f, raw); err != nil {
				return nil, fmt.Errorf("reading data chunk: %w", err)
			}
		default:
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skipping %q chunk: %w", id, err)
			}
		}
		// chunks are word-aligned
		if size%2 == 1 {
			if _, err := f.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
	}

	if w.SampleRate == 0 || w.Channels == 0 {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing data chunk")
	}

	samples, err := decodeSamples(raw, w.BitsPerSample, w.Channels)
	if err != nil {
		return nil, err
	}
	w.Samples = samples
	w.Duration = float64(len(samples)) / float64(w.SampleRate)
	return w, nil
}

func decodeSamples(raw []byte, bits, channels int) ([]float64, error) {
	bytesPer := bits / 8
	if bytesPer == 0 {
		return nil, fmt.Errorf("unsupported sample width: %d bits", bits)
	}
	frame := bytesPer * channels
	n := len(raw) / frame
	out := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		off := i * frame // first channel only
		switch bits {
		case 8:
			// 8-bit WAV is unsigned
			out = append(out, float64(int(raw[off])-128))
		case 16:
			out = append(out, float64(int16(binary.LittleEndian.Uint16(raw[off:off+2]))))
		case 32:
			out = append(out, float64(int32(binary.LittleEndian.Uint32(raw[off:off+4]))))
		default:
			return nil, fmt.Errorf("unsupported sample width: %d bits", bits)
		}
	}
	return out, nil
}

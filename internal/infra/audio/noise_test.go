package audio

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV serializes 16-bit mono PCM samples into a minimal RIFF/WAVE file.
func writeWAV(t *testing.T, sampleRate int, samples []int16) string {
	t.Helper()

	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "sample.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// sine generates a tone at the given amplitude.
func sine(sampleRate int, seconds float64, freq, amplitude float64) []int16 {
	n := int(float64(sampleRate) * seconds)
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out
}

func TestAnalyzeProducesReport(t *testing.T) {
	// quiet noise floor with loud speech-like bursts, 3 seconds
	rate := 8000
	samples := sine(rate, 1.0, 440, 200)
	samples = append(samples, sine(rate, 1.0, 440, 12000)...)
	samples = append(samples, sine(rate, 1.0, 440, 200)...)
	path := writeWAV(t, rate, samples)

	out, err := Analyzer{}.Analyze(path, "file1_MPE")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.FileIdentifier != "file1_MPE" {
		t.Errorf("file identifier = %q", report.FileIdentifier)
	}
	if report.QualitySummary.Label == "" {
		t.Error("expected a quality label")
	}
	if report.AudioProperties.SampleRate != rate {
		t.Errorf("sample rate = %d", report.AudioProperties.SampleRate)
	}
	if report.AudioProperties.Channels != 1 || report.AudioProperties.SampleWidthBits != 16 {
		t.Errorf("properties = %+v", report.AudioProperties)
	}
	if math.Abs(report.AudioProperties.DurationSeconds-3.0) > 0.01 {
		t.Errorf("duration = %v", report.AudioProperties.DurationSeconds)
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected at least one recommendation")
	}
}

func TestAnalyzeDetectsClipping(t *testing.T) {
	rate := 8000
	// half the samples hard against full scale
	samples := make([]int16, rate*2)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 32767
		} else {
			samples[i] = -32768
		}
	}
	path := writeWAV(t, rate, samples)

	out, err := Analyzer{}.Analyze(path, "clip_MPE")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if !report.QualitySummary.ClippingDetected {
		t.Error("expected clipping to be detected")
	}
	if report.DetailedMetrics.ClippingPercent < 50 {
		t.Errorf("clipping pct = %v", report.DetailedMetrics.ClippingPercent)
	}
}

func TestAnalyzeShortFileUsesDefaultSNR(t *testing.T) {
	rate := 8000
	// under 5 segments of 0.25s - too short for a floor estimate
	path := writeWAV(t, rate, sine(rate, 0.5, 440, 8000))

	out, err := Analyzer{}.Analyze(path, "short_MPE")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.DetailedMetrics.SNRDB != 30 {
		t.Errorf("snr = %v, want default 30", report.DetailedMetrics.SNRDB)
	}
}

func TestAnalyzeRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("this is not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Analyzer{}).Analyze(path, "x"); err == nil {
		t.Error("expected error for non-WAV input")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.34, "12.3s"},
		{65, "1m 5.0s"},
		{3723, "1h 2m 3.0s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

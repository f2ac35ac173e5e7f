package audio

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Metrics are the raw quality measurements for one recording.
type Metrics struct {
	RMS              float64 `json:"rms_level"`
	PeakAmplitude    float64 `json:"peak_amplitude"`
	SNRDB            float64 `json:"signal_to_noise_ratio_db"`
	DynamicRangeDB   float64 `json:"dynamic_range_db"`
	ClippingPercent  float64 `json:"clipping_percentage"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
}

// QualitySummary condenses the metrics into a score and a label.
type QualitySummary struct {
	OverallScore      float64 `json:"overall_quality_score"`
	Label             string  `json:"quality_label"`
	AverageSNR        float64 `json:"average_snr"`
	ClippingDetected  bool    `json:"clipping_detected"`
	DurationFormatted string  `json:"duration_formatted"`
}

// Properties describe the audio stream itself.
type Properties struct {
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	SampleWidthBits int     `json:"sample_width_bits"`
	DurationSeconds float64 `json:"duration_seconds"`
	FileSizeMB      float64 `json:"file_size_mb"`
}

// Report is the full noise-analysis output serialized into the section text.
type Report struct {
	FileIdentifier  string         `json:"file_identifier"`
	GeneratedAt     time.Time      `json:"timestamp"`
	QualitySummary  QualitySummary `json:"quality_summary"`
	DetailedMetrics Metrics        `json:"detailed_metrics"`
	AudioProperties Properties     `json:"audio_properties"`
	Recommendations []string       `json:"recommendations"`
}

// Analyzer runs the local noise analysis. It satisfies the orchestrator's
// noise port.
type Analyzer struct{}

// Analyze computes quality metrics for a WAV file and returns the report
// serialized as JSON.
func (Analyzer) Analyze(path, fileID string) (string, error) {
	w, err := readWAV(path)
	if err != nil {
		return "", fmt.Errorf("extracting audio stats: %w", err)
	}
	if len(w.Samples) == 0 {
		return "", fmt.Errorf("no audio samples decoded")
	}

	m := computeMetrics(w)
	report := buildReport(m, w, fileID)

	b, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshaling noise report: %w", err)
	}
	return string(b), nil
}

func computeMetrics(w *wavData) Metrics {
	var sumSq, peak float64
	for _, s := range w.Samples {
		sumSq += s * s
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	rms := math.Sqrt(sumSq / float64(len(w.Samples)))

	snr := estimateSNR(w.Samples, w.SampleRate)
	dynamicRange := 20 * math.Log10(peak/(rms+1e-10))

	// clipping: samples at (nearly) full scale
	maxValue := math.Pow(2, float64(w.BitsPerSample-1)) - 1
	clipped := 0
	for _, s := range w.Samples {
		if math.Abs(s) >= maxValue*0.99 {
			clipped++
		}
	}
	clippingPct := float64(clipped) / float64(len(w.Samples)) * 100

	crossings := 0
	for i := 1; i < len(w.Samples); i++ {
		if (w.Samples[i-1] < 0) != (w.Samples[i] < 0) {
			crossings++
		}
	}
	zcr := float64(crossings) / float64(len(w.Samples))

	return Metrics{
		RMS:              round2(rms),
		PeakAmplitude:    round2(peak),
		SNRDB:            round2(snr),
		DynamicRangeDB:   round2(dynamicRange),
		ClippingPercent:  round2(clippingPct),
		ZeroCrossingRate: math.Round(zcr*1e4) / 1e4,
	}
}

// estimateSNR splits the stream into 0.25 s segments and treats the quiet
// quartile as the noise floor and the loud quartile as signal.
func estimateSNR(samples []float64, sampleRate int) float64 {
	segmentSize := sampleRate / 4
	if segmentSize == 0 {
		return 30
	}
	numSegments := len(samples) / segmentSize
	if numSegments <= 4 {
		// too short for a floor estimate
		return 30
	}

	powers := make([]float64, numSegments)
	for i := 0; i < numSegments; i++ {
		var sum float64
		for _, s := range samples[i*segmentSize : (i+1)*segmentSize] {
			sum += s * s
		}
		powers[i] = sum / float64(segmentSize)
	}

	noiseFloor := percentile(powers, 25)
	signalPower := percentile(powers, 75)
	if noiseFloor <= 0 {
		return 60
	}
	return 10 * math.Log10(signalPower/noiseFloor)
}

func buildReport(m Metrics, w *wavData, fileID string) *Report {
	snr := m.SNRDB
	clipping := m.ClippingPercent

	var label string
	var score float64
	switch {
	case snr >= 25 && clipping < 1:
		label = "Excellent"
		score = 9 + math.Min(1, (snr-25)/10)
	case snr >= 20 && clipping < 3:
		label = "Good"
		score = 7 + (snr-20)/5
	case snr >= 15 && clipping < 5:
		label = "Fair"
		score = 5 + (snr-15)/5
	case snr >= 10:
		label = "Poor"
		score = 3 + (snr-10)/5
	default:
		label = "Very Poor"
		score = math.Max(1, snr/10)
	}

	var recs []string
	if snr < 20 {
		recs = append(recs, "Consider noise reduction preprocessing")
	}
	if clipping > 2 {
		recs = append(recs, "Audio has clipping - check recording levels")
	}
	if m.DynamicRangeDB < 20 {
		recs = append(recs, "Low dynamic range - may indicate compression issues")
	}
	if len(recs) == 0 {
		recs = append(recs, "Audio quality is acceptable for processing")
	}

	return &Report{
		FileIdentifier: fileID,
		GeneratedAt:    time.Now(),
		QualitySummary: QualitySummary{
			OverallScore:      math.Round(score*10) / 10,
			Label:             label,
			AverageSNR:        math.Round(snr*10) / 10,
			ClippingDetected:  clipping > 1,
			DurationFormatted: FormatDuration(w.Duration),
		},
		DetailedMetrics: m,
		AudioProperties: Properties{
			SampleRate:      w.SampleRate,
			Channels:        w.Channels,
			SampleWidthBits: w.BitsPerSample,
			DurationSeconds: round2(w.Duration),
			FileSizeMB:      round2(w.FileSizeMB),
		},
		Recommendations: recs,
	}
}

// FormatDuration renders seconds as "12.3s", "4m 5.0s" or "1h 2m 3.0s".
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %.1fs", int(seconds)/60, math.Mod(seconds, 60))
	default:
		h := int(seconds) / 3600
		m := (int(seconds) % 3600) / 60
		return fmt.Sprintf("%dh %dm %.1fs", h, m, math.Mod(seconds, 60))
	}
}

func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

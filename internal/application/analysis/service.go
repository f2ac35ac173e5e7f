package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/callsight/callsight/internal/application"
	"github.com/callsight/callsight/internal/domain/ai"
	domain "github.com/callsight/callsight/internal/domain/analysis"
)

// Downloader port: resolve link jadi file audio lokal
type Downloader interface {
	Download(ctx context.Context, audioURL string) (string, error)
	Identifier(audioURL string) string
}

// NoiseAnalyzer port: hitung metrik kualitas audio dari file lokal
type NoiseAnalyzer interface {
	Analyze(path, fileID string) (string, error)
}

// Service orchestrates the fixed analysis pipeline. One call runs every
// section in order; a failing section is recorded and the rest continue,
// except sections that need the transcript when transcription failed.
type Service struct {
	Repo        domain.Repository
	Artifacts   domain.ArtifactStore
	Snapshots   domain.SnapshotStore
	Transcriber ai.Transcriber
	Summarizer  ai.Summarizer
	Evaluator   ai.Evaluator
	Recommender ai.Recommender
	Noise       NoiseAnalyzer
	Downloader  Downloader
	Clock       application.Clock
}

// Command untuk trigger analysis
type AnalyzeCommand struct {
	TenantID  string
	DriveLink string
}

// Analyze runs the whole pipeline synchronously and returns the finished
// Analysis. The returned error is non-nil only when the audio could not be
// fetched at all; per-section failures live inside the Analysis.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Analysis, error) {
	start := s.Clock.Now()
	fileID := s.Downloader.Identifier(cmd.DriveLink)

	a := &domain.Analysis{
		ID:          domain.AnalysisID(fileID),
		TenantID:    cmd.TenantID,
		AudioURL:    cmd.DriveLink,
		Status:      domain.StatusPending,
		TriggeredAt: start,
		Results:     map[domain.Section]domain.SectionResult{},
	}

	localPath, err := s.Downloader.Download(ctx, cmd.DriveLink)
	if err != nil {
		a.Status = domain.StatusFailed
		a.Errors = append(a.Errors, fmt.Sprintf("download: %v", err))
		a.DurationMS = s.Clock.Now().Sub(start).Milliseconds()
		s.persist(ctx, a)
		return a, fmt.Errorf("downloading audio: %w", err)
	}
	defer os.Remove(localPath)

	// transcription jalan duluan, section lain pakai hasilnya
	transcript := s.runTranscription(ctx, a, localPath)
	s.runNoise(ctx, a, localPath, fileID)

	if transcript == "" {
		skipDependent(a)
	} else {
		evaluation := s.runEvaluation(ctx, a, transcript)
		s.runSummary(ctx, a, transcript)
		s.runRecommendations(ctx, a, transcript, evaluation)
	}

	a.Status = domain.StatusCompleted
	a.DurationMS = s.Clock.Now().Sub(start).Milliseconds()
	s.persist(ctx, a)
	return a, nil
}

// Latest ambil N analysis terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, tenant, id)
}

//
// ==== SECTIONS ====
//

func (s *Service) runTranscription(ctx context.Context, a *domain.Analysis, localPath string) string {
	text, err := s.Transcriber.Transcribe(ctx, localPath)
	if err != nil {
		s.recordFailure(a, domain.SectionTranscription, err)
		return ""
	}
	s.recordSuccess(ctx, a, domain.SectionTranscription, text, "text/plain; charset=utf-8", ".txt")
	return text
}

func (s *Service) runNoise(ctx context.Context, a *domain.Analysis, localPath, fileID string) {
	report, err := s.Noise.Analyze(localPath, fileID)
	if err != nil {
		s.recordFailure(a, domain.SectionNoiseAnalysis, err)
		return
	}
	s.recordSuccess(ctx, a, domain.SectionNoiseAnalysis, report, "application/json", ".json")
}

func (s *Service) runEvaluation(ctx context.Context, a *domain.Analysis, transcript string) string {
	doc, err := s.Evaluator.Evaluate(ctx, transcript)
	if err != nil {
		s.recordFailure(a, domain.SectionEvaluation, err)
		return ""
	}
	s.recordSuccess(ctx, a, domain.SectionEvaluation, doc, "application/json", ".json")
	return doc
}

func (s *Service) runSummary(ctx context.Context, a *domain.Analysis, transcript string) {
	text, err := s.Summarizer.Summarize(ctx, transcript)
	if err != nil {
		s.recordFailure(a, domain.SectionSummary, err)
		return
	}
	s.recordSuccess(ctx, a, domain.SectionSummary, text, "text/plain; charset=utf-8", ".txt")
}

func (s *Service) runRecommendations(ctx context.Context, a *domain.Analysis, transcript, evaluation string) {
	text, err := s.Recommender.Recommend(ctx, transcript, evaluation)
	if err != nil {
		s.recordFailure(a, domain.SectionRecommendations, err)
		return
	}
	s.recordSuccess(ctx, a, domain.SectionRecommendations, text, "text/plain; charset=utf-8", ".txt")

	// report terstruktur ikut diupload sebagai artifact tambahan
	cats := domain.ParseRecommendations(text)
	if payload, err := json.Marshal(cats); err == nil {
		s.uploadArtifact(ctx, a, "recommendations_categories", string(payload), "application/json", ".json")
	}
}

// skipDependent marks the transcript-dependent sections as failed when there
// is no transcript to feed them.
func skipDependent(a *domain.Analysis) {
	for _, sec := range []domain.Section{
		domain.SectionEvaluation,
		domain.SectionSummary,
		domain.SectionRecommendations,
	} {
		a.Results[sec] = domain.SectionResult{
			Status: domain.SectionFailure,
			Error:  "skipped: transcription unavailable",
		}
	}
}

//
// ==== HELPERS ====
//

func (s *Service) recordSuccess(ctx context.Context, a *domain.Analysis, sec domain.Section, text, contentType, ext string) {
	res := domain.SectionResult{Status: domain.SectionSuccess, PrimaryText: text}
	if url := s.uploadArtifact(ctx, a, string(sec), text, contentType, ext); url != "" {
		res.OutputPath = url
	}
	a.Results[sec] = res
}

func (s *Service) recordFailure(a *domain.Analysis, sec domain.Section, err error) {
	log.Printf("section %s failed for %s: %v", sec, a.ID, err)
	a.Results[sec] = domain.SectionResult{Status: domain.SectionFailure, Error: err.Error()}
	a.Errors = append(a.Errors, fmt.Sprintf("%s: %v", sec, err))
}

// uploadArtifact best-effort: gagal upload tidak menggagalkan section
func (s *Service) uploadArtifact(ctx context.Context, a *domain.Analysis, name, content, contentType, ext string) string {
	if s.Artifacts == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%s/%s%s", a.TenantID, a.ID, name, ext)
	url, err := s.Artifacts.UploadText(ctx, key, content, contentType)
	if err != nil {
		log.Printf("artifact upload %s failed: %v", key, err)
		return ""
	}
	return url
}

// persist best-effort: repo dan snapshot boleh gagal tanpa menggagalkan analysis
func (s *Service) persist(ctx context.Context, a *domain.Analysis) {
	if s.Repo != nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.Repo.Save(saveCtx, a); err != nil {
			log.Printf("saving analysis %s failed: %v", a.ID, err)
		}
	}
	if s.Snapshots != nil {
		if err := s.Snapshots.Put(a.TenantID, a); err != nil {
			log.Printf("storing snapshot for %s failed: %v", a.TenantID, err)
		}
	}
}

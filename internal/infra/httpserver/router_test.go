package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appanalysis "github.com/callsight/callsight/internal/application/analysis"
	appdashboard "github.com/callsight/callsight/internal/application/dashboard"
	domain "github.com/callsight/callsight/internal/domain/analysis"
)

type stubRepo struct {
	saved []*domain.Analysis
}

func (r *stubRepo) Save(ctx context.Context, a *domain.Analysis) error { return nil }
func (r *stubRepo) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	for _, a := range r.saved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}
func (r *stubRepo) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	return r.saved, nil
}
func (r *stubRepo) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{}, nil
}

type stubAgent struct{ out string }

func (s *stubAgent) Transcribe(ctx context.Context, path string) (string, error) { return s.out, nil }
func (s *stubAgent) Summarize(ctx context.Context, transcript string) (string, error) {
	return s.out, nil
}
func (s *stubAgent) Evaluate(ctx context.Context, transcript string) (string, error) {
	return `{"overall_score":8}`, nil
}
func (s *stubAgent) Recommend(ctx context.Context, transcript, evaluationJSON string) (string, error) {
	return s.out, nil
}

type stubNoise struct{}

func (stubNoise) Analyze(path, fileID string) (string, error) { return `{"ok":true}`, nil }

type stubDownloader struct{ dir string }

func (d *stubDownloader) Download(ctx context.Context, url string) (string, error) {
	p := filepath.Join(d.dir, "call.wav")
	if err := os.WriteFile(p, []byte("RIFFdata"), 0o644); err != nil {
		return "", err
	}
	return p, nil
}
func (d *stubDownloader) Identifier(url string) string { return "abc123_MPE" }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func newTestServer(t *testing.T) (*httptest.Server, *stubRepo, *appanalysis.Service) {
	t.Helper()
	repo := &stubRepo{}
	agent := &stubAgent{out: "Agent: hello"}
	analysisSvc := &appanalysis.Service{
		Repo:        repo,
		Transcriber: agent,
		Summarizer:  agent,
		Evaluator:   agent,
		Recommender: agent,
		Noise:       stubNoise{},
		Downloader:  &stubDownloader{dir: t.TempDir()},
		Clock:       realClock{},
	}
	dashboardSvc := &appdashboard.Service{Repo: repo}
	srv := httptest.NewServer(NewRouter(analysisSvc, dashboardSvc))
	t.Cleanup(srv.Close)
	return srv, repo, analysisSvc
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := `{"driveLink":"https://drive.google.com/file/d/abc123/view"}`
	resp, err := http.Post(srv.URL+"/v1/clinic-1/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Status   string           `json:"status"`
		Analysis *domain.Analysis `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "success" {
		t.Errorf("status = %q, want success", out.Status)
	}
	if out.Analysis == nil || out.Analysis.ID != "abc123_MPE" {
		t.Errorf("analysis = %+v", out.Analysis)
	}
}

type failingDownloader struct{}

func (failingDownloader) Download(ctx context.Context, url string) (string, error) {
	return "", errors.New("drive unreachable")
}
func (failingDownloader) Identifier(url string) string { return "gone_MPE" }

func TestAnalyzeDownloadFailureEnvelope(t *testing.T) {
	srv, _, analysisSvc := newTestServer(t)
	analysisSvc.Downloader = failingDownloader{}

	body := `{"driveLink":"https://drive.google.com/file/d/gone/view"}`
	resp, err := http.Post(srv.URL+"/v1/clinic-1/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status code = %d, want 502", resp.StatusCode)
	}
	var out struct {
		Status   string           `json:"status"`
		Analysis *domain.Analysis `json:"analysis"`
		Message  string           `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "error" {
		t.Errorf("status = %q, want error", out.Status)
	}
	if out.Analysis == nil || out.Analysis.Status != domain.StatusFailed {
		t.Errorf("analysis = %+v", out.Analysis)
	}
	if out.Message == "" {
		t.Error("expected failure message")
	}
}

func TestAnalyzeRejectsBadLink(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := `{"driveLink":"https://example.com/nope"}`
	resp, err := http.Post(srv.URL+"/v1/clinic-1/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeRejectsMissingBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/clinic-1/analyze", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/clinic-1/analyses/missing_MPE")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDashboardDataEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/clinic-1/dashboard/data")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Status string `json:"status"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "error" || out.Source != "none" {
		t.Errorf("status=%q source=%q, want error/none", out.Status, out.Source)
	}
}

func TestDashboardDataByFileID(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	repo.saved = append(repo.saved, &domain.Analysis{
		ID:       "stored_MPE",
		TenantID: "clinic-1",
		Status:   domain.StatusCompleted,
	})

	resp, err := http.Get(srv.URL + "/v1/clinic-1/dashboard/data?file_id=stored_MPE")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Status string           `json:"status"`
		Source string           `json:"source"`
		Data   *domain.Analysis `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "success" {
		t.Errorf("status = %q, want success", out.Status)
	}
	if out.Source != "fetch" || out.Data == nil || out.Data.ID != "stored_MPE" {
		t.Errorf("out = %+v", out)
	}
}

func TestDashboardViewRendersRegions(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	repo.saved = append(repo.saved, &domain.Analysis{
		ID:       "view_MPE",
		TenantID: "clinic-1",
		Status:   domain.StatusCompleted,
		Results: map[domain.Section]domain.SectionResult{
			domain.SectionTranscription: {Status: domain.SectionSuccess, PrimaryText: "Patient: hello"},
		},
	})

	resp, err := http.Get(srv.URL + "/v1/clinic-1/dashboard/view?file_id=view_MPE")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Transcript struct {
			Populated bool `json:"populated"`
			Entries   []struct {
				Speaker   string `json:"speaker"`
				Timestamp string `json:"timestamp"`
			} `json:"entries"`
		} `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Transcript.Populated || len(out.Transcript.Entries) != 1 {
		t.Fatalf("transcript = %+v", out.Transcript)
	}
	if out.Transcript.Entries[0].Speaker != "Customer" || out.Transcript.Entries[0].Timestamp != "0:00" {
		t.Errorf("entry = %+v", out.Transcript.Entries[0])
	}
}

package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"

	domain "github.com/callsight/callsight/internal/domain/analysis"
)

type stubRepo struct {
	byID map[domain.AnalysisID]*domain.Analysis
	err  error
}

func (r *stubRepo) Save(ctx context.Context, a *domain.Analysis) error { return nil }
func (r *stubRepo) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}
func (r *stubRepo) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	return nil, nil
}
func (r *stubRepo) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{}, nil
}

type stubSnapshots struct {
	byTenant map[string]*domain.Analysis
	getErr   error
	putErr   error
}

func (s *stubSnapshots) Put(tenant string, a *domain.Analysis) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.byTenant == nil {
		s.byTenant = map[string]*domain.Analysis{}
	}
	s.byTenant[tenant] = a
	return nil
}
func (s *stubSnapshots) Get(tenant string) (*domain.Analysis, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	a, ok := s.byTenant[tenant]
	if !ok {
		return nil, errors.New("no snapshot stored")
	}
	return a, nil
}

func sample(id string) *domain.Analysis {
	return &domain.Analysis{
		ID:       domain.AnalysisID(id),
		TenantID: "clinic-1",
		Status:   domain.StatusCompleted,
		Results: map[domain.Section]domain.SectionResult{
			domain.SectionSummary: {Status: domain.SectionSuccess, PrimaryText: "ringkas"},
		},
	}
}

func TestLoadPrefersExplicitFileID(t *testing.T) {
	fetched := sample("fetched_MPE")
	snap := sample("snap_MPE")
	svc := &Service{
		Repo:      &stubRepo{byID: map[domain.AnalysisID]*domain.Analysis{"fetched_MPE": fetched}},
		Snapshots: &stubSnapshots{byTenant: map[string]*domain.Analysis{"clinic-1": snap}},
	}

	res := svc.Load(context.Background(), "clinic-1", "fetched_MPE")
	if res.Source != SourceFetch {
		t.Errorf("source = %s", res.Source)
	}
	if res.Data.ID != "fetched_MPE" {
		t.Errorf("data = %s", res.Data.ID)
	}
}

func TestLoadFallsBackToSnapshot(t *testing.T) {
	snap := sample("snap_MPE")
	svc := &Service{
		Repo:      &stubRepo{},
		Snapshots: &stubSnapshots{byTenant: map[string]*domain.Analysis{"clinic-1": snap}},
	}

	res := svc.Load(context.Background(), "clinic-1", "")
	if res.Source != SourceSnapshot {
		t.Errorf("source = %s", res.Source)
	}
	if res.Data.ID != "snap_MPE" {
		t.Errorf("data = %s", res.Data.ID)
	}
}

func TestLoadFetchFailureIsAbsorbed(t *testing.T) {
	svc := &Service{
		Repo:      &stubRepo{err: errors.New("db down")},
		Snapshots: &stubSnapshots{byTenant: map[string]*domain.Analysis{"clinic-1": sample("s_MPE")}},
	}

	res := svc.Load(context.Background(), "clinic-1", "wanted_MPE")
	if res.Source != SourceNone {
		t.Errorf("fetch failure must not fall through to snapshot, source = %s", res.Source)
	}
	if res.Diagnostic == "" {
		t.Error("expected diagnostic")
	}
	if res.Data != nil {
		t.Error("expected no data")
	}
}

func TestLoadSnapshotFailureIsAbsorbed(t *testing.T) {
	svc := &Service{
		Repo:      &stubRepo{},
		Snapshots: &stubSnapshots{getErr: errors.New("malformed snapshot")},
	}

	res := svc.Load(context.Background(), "clinic-1", "")
	if res.Source != SourceNone {
		t.Errorf("source = %s", res.Source)
	}
	if res.Diagnostic == "" {
		t.Error("expected diagnostic")
	}
}

func TestStoreThenCurrentRoundTrip(t *testing.T) {
	svc := &Service{Snapshots: &stubSnapshots{}}
	a := sample("stored_MPE")

	if err := svc.Store("clinic-1", a); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got := svc.Current()
	if !reflect.DeepEqual(got, a) {
		t.Errorf("Current() != stored analysis: %+v", got)
	}
}

func TestCurrentNilBeforeAnyLoad(t *testing.T) {
	svc := &Service{}
	if svc.Current() != nil {
		t.Error("expected nil current")
	}
}

func TestViewNeverErrors(t *testing.T) {
	svc := &Service{
		Repo:      &stubRepo{err: errors.New("db down")},
		Snapshots: &stubSnapshots{getErr: errors.New("no snapshot")},
	}

	v := svc.View(context.Background(), "clinic-1", "missing_MPE")
	if v == nil {
		t.Fatal("View must always return a view")
	}
	if v.Summary.Populated || v.Transcript.Populated || v.Insights.Populated {
		t.Error("expected empty regions")
	}
	if len(v.Warnings) == 0 {
		t.Error("expected diagnostic warning")
	}
}

func TestViewRendersLoadedData(t *testing.T) {
	a := sample("v_MPE")
	a.Results[domain.SectionTranscription] = domain.SectionResult{
		Status:      domain.SectionSuccess,
		PrimaryText: "Agent: hello\nCustomer: hi",
	}
	svc := &Service{
		Repo: &stubRepo{byID: map[domain.AnalysisID]*domain.Analysis{"v_MPE": a}},
	}

	v := svc.View(context.Background(), "clinic-1", "v_MPE")
	if !v.Summary.Populated {
		t.Error("summary should be populated")
	}
	if !v.Transcript.Populated || len(v.Transcript.Entries) != 2 {
		t.Errorf("transcript entries = %+v", v.Transcript.Entries)
	}
}

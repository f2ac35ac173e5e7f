package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"

	domain "github.com/callsight/callsight/internal/domain/analysis"
	"github.com/callsight/callsight/internal/domain/dashboard"
)

// Source values for LoadResult.
const (
	SourceFetch    = "fetch"
	SourceSnapshot = "snapshot"
	SourceNone     = "none"
)

// LoadResult reports where the dashboard data came from. Exactly one source
// is used per load; Diagnostic explains a SourceNone outcome.
type LoadResult struct {
	Data       *domain.Analysis `json:"data,omitempty"`
	Source     string           `json:"source"`
	Diagnostic string           `json:"diagnostic,omitempty"`
}

// Service resolves the data behind the dashboard. Thread-safe: the current
// analysis is instance state guarded by a mutex, never package state.
type Service struct {
	Repo      domain.Repository
	Snapshots domain.SnapshotStore

	mu      sync.RWMutex
	current *domain.Analysis
}

// Load resolves dashboard data with fixed priority: explicit fileID wins,
// stored snapshot second, nothing third. Failures of either source are
// absorbed into a SourceNone result, never returned as errors.
func (s *Service) Load(ctx context.Context, tenant, fileID string) LoadResult {
	if fileID != "" {
		a, err := s.FetchByID(ctx, tenant, fileID)
		if err != nil {
			log.Printf("dashboard fetch %s/%s failed: %v", tenant, fileID, err)
			return LoadResult{Source: SourceNone, Diagnostic: fmt.Sprintf("fetch %s failed: %v", fileID, err)}
		}
		s.setCurrent(a)
		return LoadResult{Data: a, Source: SourceFetch}
	}

	if s.Snapshots != nil {
		a, err := s.Snapshots.Get(tenant)
		if err == nil {
			s.setCurrent(a)
			return LoadResult{Data: a, Source: SourceSnapshot}
		}
		log.Printf("dashboard snapshot for %s unavailable: %v", tenant, err)
		return LoadResult{Source: SourceNone, Diagnostic: fmt.Sprintf("snapshot unavailable: %v", err)}
	}

	return LoadResult{Source: SourceNone, Diagnostic: "no data source configured"}
}

// FetchByID retrieves a stored analysis by its file identifier.
func (s *Service) FetchByID(ctx context.Context, tenant, fileID string) (*domain.Analysis, error) {
	if s.Repo == nil {
		return nil, fmt.Errorf("no repository configured")
	}
	return s.Repo.Get(ctx, tenant, domain.AnalysisID(fileID))
}

// Store records a freshly produced analysis as the tenant's snapshot and as
// the current in-memory data.
func (s *Service) Store(tenant string, a *domain.Analysis) error {
	s.setCurrent(a)
	if s.Snapshots == nil {
		return nil
	}
	return s.Snapshots.Put(tenant, a)
}

// Current returns the analysis behind the dashboard right now, nil when
// nothing has been loaded or stored yet.
func (s *Service) Current() *domain.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// View loads dashboard data and renders it into the three display regions.
// Never returns an error: a failed load renders as an empty view carrying
// the diagnostic as a warning.
func (s *Service) View(ctx context.Context, tenant, fileID string) *dashboard.View {
	res := s.Load(ctx, tenant, fileID)
	v := dashboard.Render(res.Data)
	if res.Source == SourceNone && res.Diagnostic != "" {
		v.Warnings = append(v.Warnings, res.Diagnostic)
	}
	return v
}

func (s *Service) setCurrent(a *domain.Analysis) {
	s.mu.Lock()
	s.current = a
	s.mu.Unlock()
}

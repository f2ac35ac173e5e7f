package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/callsight/callsight/internal/application/analysis"
	appdashboard "github.com/callsight/callsight/internal/application/dashboard"
	domai "github.com/callsight/callsight/internal/domain/ai"
	domain "github.com/callsight/callsight/internal/domain/analysis"
	"github.com/callsight/callsight/internal/middleware"
)

type Router struct {
	analysisSvc  *appanalysis.Service
	dashboardSvc *appdashboard.Service
}

func NewRouter(analysisSvc *appanalysis.Service, dashboardSvc *appdashboard.Service) http.Handler {
	r := &Router{analysisSvc: analysisSvc, dashboardSvc: dashboardSvc}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/dashboard/data", r.wrap(r.handleDashboardData))
		rt.Get("/dashboard/view", r.wrap(r.handleDashboardView))
		rt.Get("/analyses/latest", r.wrap(r.handleLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var verr *middleware.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/analyze
// Body: {"driveLink": "<google drive url>"}
// Menjalankan pipeline penuh secara sinkron dan balikin hasilnya langsung.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}

	var body struct {
		DriveLink string `json:"driveLink"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return middleware.NewValidationError("driveLink", "request body must be JSON with a driveLink field")
	}
	if err := middleware.ValidateDriveLink(body.DriveLink); err != nil {
		return err
	}

	a, err := r.analysisSvc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		TenantID:  tenant,
		DriveLink: body.DriveLink,
	})
	if err != nil {
		// download gagal: analysis tetap ada dengan status failed
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		return json.NewEncoder(w).Encode(map[string]any{
			"status":   "error",
			"analysis": a,
			"message":  err.Error(),
		})
	}

	_ = r.dashboardSvc.Store(tenant, a)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"status":   "success",
		"analysis": a,
		"message":  "analysis finished",
	})
}

// GET /v1/{tenant}/dashboard/data?file_id=
func (r *Router) handleDashboardData(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	fileID := req.URL.Query().Get("file_id")
	if fileID != "" {
		if err := middleware.ValidateFileID(fileID); err != nil {
			return err
		}
	}

	res := r.dashboardSvc.Load(req.Context(), tenant, fileID)
	status := "success"
	if res.Source == appdashboard.SourceNone {
		status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"status":     status,
		"data":       res.Data,
		"source":     res.Source,
		"diagnostic": res.Diagnostic,
	})
}

// GET /v1/{tenant}/dashboard/view?file_id=
// Versi yang sudah dirender jadi region siap tampil.
func (r *Router) handleDashboardView(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	fileID := req.URL.Query().Get("file_id")
	if fileID != "" {
		if err := middleware.ValidateFileID(fileID); err != nil {
			return err
		}
	}

	v := r.dashboardSvc.View(req.Context(), tenant, fileID)
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// GET /v1/{tenant}/analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.analysisSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateFileID(id); err != nil {
		return err
	}

	a, err := r.analysisSvc.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

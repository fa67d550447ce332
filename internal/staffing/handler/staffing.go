package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medflow/theatreops-backend/internal/staffing/bulkedit"
	"github.com/medflow/theatreops-backend/internal/staffing/client"
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/internal/staffing/export"
	"github.com/medflow/theatreops-backend/internal/staffing/service"
	"github.com/medflow/theatreops-backend/pkg/httputil"
	"github.com/medflow/theatreops-backend/pkg/i18n"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/permissions"
)

// Service is the staffing behaviour the handler exposes
type Service interface {
	Summaries(ctx context.Context, q service.RangeQuery) ([]domain.DailyRequirementSummary, error)
	Sessions(ctx context.Context, q service.RangeQuery) ([]domain.Session, error)
	SaveSessions(ctx context.Context, sessions []domain.Session) error
	BulkEdit(ctx context.Context, cells []bulkedit.Cell, edit bulkedit.PendingEdit) (*service.BulkEditResult, error)
	Allocations(ctx context.Context) ([]domain.StaffAllocation, error)
	SaveAllocation(ctx context.Context, sessionID string, roles domain.RoleList) (*domain.StaffAllocation, error)
	DeleteAllocation(ctx context.Context, sessionID string) error
	RankCandidates(ctx context.Context, sessionID string, candidateIDs []string) ([]client.CandidateScore, error)
	Auxiliary(ctx context.Context, q service.RangeQuery) ([]domain.AuxiliaryStaffingRecord, error)
	Night(ctx context.Context, q service.RangeQuery) ([]domain.NightStaffingRecord, error)
	SaveAuxiliary(ctx context.Context, date string, roles domain.RoleList) (*domain.AuxiliaryStaffingRecord, error)
	SaveNight(ctx context.Context, date string, roles domain.RoleList) (*domain.NightStaffingRecord, error)
}

// StaffingHandler handles staffing requirement endpoints
type StaffingHandler struct {
	service Service
	logger  *logger.Logger
}

// NewStaffingHandler creates a new staffing handler
func NewStaffingHandler(svc Service, log *logger.Logger) *StaffingHandler {
	return &StaffingHandler{
		service: svc,
		logger:  log,
	}
}

// Routes returns the staffing API router. Tenant and actor middleware must
// run before it.
func (h *StaffingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	read := httputil.RequirePermission(permissions.StaffingRead)
	write := httputil.RequirePermission(permissions.StaffingWrite)

	r.With(read).Get("/summaries", h.Summaries)
	r.With(httputil.RequirePermission(permissions.StaffingExport)).Get("/summaries/export", h.ExportSummaries)

	r.Route("/sessions", func(r chi.Router) {
		r.With(read).Get("/", h.ListSessions)
		r.With(write).Put("/", h.SaveSessions)
		r.With(write).Post("/bulk-edit", h.BulkEdit)
	})

	r.Route("/allocations", func(r chi.Router) {
		r.With(read).Get("/", h.ListAllocations)
		r.With(write).Put("/{sessionId}", h.SaveAllocation)
		r.With(write).Delete("/{sessionId}", h.DeleteAllocation)
		r.With(read).Post("/{sessionId}/rank", h.RankCandidates)
	})

	r.Route("/pools", func(r chi.Router) {
		poolsWrite := httputil.RequirePermission(permissions.StaffingPoolsWrite)
		r.With(read).Get("/auxiliary", h.ListAuxiliary)
		r.With(poolsWrite).Put("/auxiliary", h.SaveAuxiliary)
		r.With(read).Get("/night", h.ListNight)
		r.With(poolsWrite).Put("/night", h.SaveNight)
	})

	return r
}

func rangeQuery(r *http.Request) service.RangeQuery {
	q := r.URL.Query()
	return service.RangeQuery{
		Start:      q.Get("start_date"),
		End:        q.Get("end_date"),
		TheatreIDs: q["theatre_id"],
	}
}

// decode reads and validates a JSON request body
func decode(r *http.Request, v interface{}) error {
	if err := httputil.DecodeJSONLocalized(r, v); err != nil {
		return err
	}
	return httputil.Validate(v)
}

// ============================================================================
// SUMMARIES
// ============================================================================

// Summaries returns the daily requirement summaries of a range
func (h *StaffingHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summaries(r.Context(), rangeQuery(r))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summaries)
}

// ExportSummaries returns the daily requirement summaries as a spreadsheet
func (h *StaffingHandler) ExportSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summaries(r.Context(), rangeQuery(r))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	data, err := export.Workbook(summaries, i18n.LocalizerFromContext(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build requirements workbook")
		httputil.ErrorLocalized(w, r, err)
		return
	}

	name := "staffing-requirements.xlsx"
	if len(summaries) > 0 {
		name = fmt.Sprintf("staffing-requirements-%s-%s.xlsx", summaries[0].Date, summaries[len(summaries)-1].Date)
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ============================================================================
// SESSIONS
// ============================================================================

type sessionInput struct {
	TheatreID               string `json:"theatre_id" validate:"required"`
	Date                    string `json:"date" validate:"required,datetime=2006-01-02"`
	SessionType             string `json:"session_type" validate:"required,oneof=day long-day night emergency closed"`
	Specialty               string `json:"specialty"`
	Subspecialty            string `json:"subspecialty"`
	SurgeonID               string `json:"surgeon_id"`
	SurgeonAssistantID      string `json:"surgeon_assistant_id"`
	AnaesthetistID          string `json:"anaesthetist_id"`
	AnaesthetistAssistantID string `json:"anaesthetist_assistant_id"`
	ClosedReason            string `json:"closed_reason"`
	Notes                   string `json:"notes"`
}

func (in sessionInput) session() domain.Session {
	return domain.Session{
		TheatreID:               in.TheatreID,
		Date:                    in.Date,
		SessionType:             domain.SessionType(in.SessionType),
		Specialty:               in.Specialty,
		Subspecialty:            in.Subspecialty,
		SurgeonID:               in.SurgeonID,
		SurgeonAssistantID:      in.SurgeonAssistantID,
		AnaesthetistID:          in.AnaesthetistID,
		AnaesthetistAssistantID: in.AnaesthetistAssistantID,
		ClosedReason:            in.ClosedReason,
		Notes:                   in.Notes,
	}
}

// ListSessions lists the sessions of a range
func (h *StaffingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.Sessions(r.Context(), rangeQuery(r))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	httputil.JSON(w, http.StatusOK, sessions)
}

// SaveSessions stores a batch of sessions with the values given
func (h *StaffingHandler) SaveSessions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sessions []sessionInput `json:"sessions" validate:"required,min=1,dive"`
	}
	if err := decode(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	sessions := make([]domain.Session, len(req.Sessions))
	for i, in := range req.Sessions {
		sessions[i] = in.session()
	}

	if err := h.service.SaveSessions(r.Context(), sessions); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, sessions)
}

// BulkEdit applies one edit to many cells. Fields omitted from the edit are
// left unchanged.
func (h *StaffingHandler) BulkEdit(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Cells []bulkedit.Cell      `json:"cells" validate:"dive"`
		Edit  bulkedit.PendingEdit `json:"edit"`
	}{Edit: bulkedit.NoChangeEdit()}
	if err := decode(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	result, err := h.service.BulkEdit(r.Context(), req.Cells, req.Edit)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// ============================================================================
// ALLOCATIONS
// ============================================================================

// ListAllocations lists every staff allocation
func (h *StaffingHandler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := h.service.Allocations(r.Context())
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if allocs == nil {
		allocs = []domain.StaffAllocation{}
	}

	httputil.JSON(w, http.StatusOK, allocs)
}

// SaveAllocation replaces the allocation of a session
func (h *StaffingHandler) SaveAllocation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req struct {
		Roles domain.RoleList `json:"roles" validate:"dive"`
	}
	if err := decode(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	alloc, err := h.service.SaveAllocation(r.Context(), sessionID, req.Roles)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alloc)
}

// DeleteAllocation removes the allocation of a session
func (h *StaffingHandler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAllocation(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.NoContent(w)
}

// RankCandidates orders candidate staff for a session
func (h *StaffingHandler) RankCandidates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,dive,required"`
	}
	if err := decode(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	scores, err := h.service.RankCandidates(r.Context(), chi.URLParam(r, "sessionId"), req.CandidateIDs)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, scores)
}

// ============================================================================
// POOLS
// ============================================================================

type poolRequest struct {
	Date  string          `json:"date" validate:"required,datetime=2006-01-02"`
	Roles domain.RoleList `json:"roles" validate:"dive"`
}

// ListAuxiliary lists the auxiliary pool of a range
func (h *StaffingHandler) ListAuxiliary(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Auxiliary(r.Context(), rangeQuery(r))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, records)
}

// SaveAuxiliary replaces the auxiliary pool of a date
func (h *StaffingHandler) SaveAuxiliary(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if err := decode(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	rec, err := h.service.SaveAuxiliary(r.Context(), req.Date, req.Roles)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rec)
}

// ListNight lists the night pool of a range
func (h *StaffingHandler) ListNight(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Night(r.Context(), rangeQuery(r))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, records)
}

// SaveNight replaces the night pool of a date
func (h *StaffingHandler) SaveNight(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if err := decode(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	rec, err := h.service.SaveNight(r.Context(), req.Date, req.Roles)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rec)
}

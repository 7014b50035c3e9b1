// Package httptransport exposes wizard sessions over HTTP for the UI. It only
// decodes requests and encodes responses; the wizard owns the behavior.
package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/wizard"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/httputil"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

// Service is what the handler needs from the wizard.
type Service interface {
	Open(ctx context.Context, req wizard.OpenRequest) (SessionView, error)
	Session(ctx context.Context, token id.SessionID) (SessionView, error)
	Mutate(ctx context.Context, token id.SessionID, mutation models.Mutation) (SessionView, error)
	UpdateContact(ctx context.Context, token id.SessionID, contact models.ContactInfo) (SessionView, models.Patch, error)
	GoToStep(ctx context.Context, token id.SessionID, step int) (progress.StepProgress, error)
	ForceSave(ctx context.Context, token id.SessionID) error
	Close(ctx context.Context, token id.SessionID) error
	Presence(ctx context.Context, token id.SessionID) (PresenceView, error)
}

// Handler wires wizard endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a handler. A nil logger discards output.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts wizard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cases/{caseID}/sessions", h.HandleOpen)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Delete("/", h.HandleClose)
		r.Get("/progress", h.HandleProgress)
		r.Put("/contact", h.HandleUpdateContact)
		r.Put("/company", h.HandleUpdateCompany)
		r.Put("/devices", h.HandleUpdateDevices)
		r.Put("/consents", h.HandleUpdateConsents)
		r.Post("/steps/{step}", h.HandleGoToStep)
		r.Post("/save", h.HandleForceSave)
		r.Get("/presence", h.HandlePresence)
	})
}

// HandleOpen handles POST /cases/{caseID}/sessions.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid case id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[OpenSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	userAgent := requestcontext.UserAgent(ctx)
	if userAgent == "" {
		userAgent = r.UserAgent()
	}

	view, err := h.service.Open(ctx, wizard.OpenRequest{
		CaseID:      caseID,
		UserID:      requestcontext.UserID(ctx),
		DisplayName: req.DisplayName,
		UserAgent:   userAgent,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "open wizard session failed",
			"request_id", requestID,
			"case_id", caseID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "wizard session opened",
		"request_id", requestID,
		"case_id", caseID.String(),
		"session_id", view.Token.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromSession(view))
}

// HandleGet handles GET /sessions/{sessionID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	view, err := h.service.Session(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(view))
}

// HandleProgress handles GET /sessions/{sessionID}/progress.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	view, err := h.service.Session(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOverview(view.Progress))
}

// HandleUpdateContact handles PUT /sessions/{sessionID}/contact.
func (h *Handler) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ContactRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, patch, err := h.service.UpdateContact(ctx, token, req.ContactInfo)
	if err != nil {
		h.logger.ErrorContext(ctx, "update contact failed",
			"request_id", requestID,
			"session_id", token.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ContactResponse{
		SessionResponse: FromSession(view),
		Autofill:        FromPatch(patch),
	})
}

// HandleUpdateCompany handles PUT /sessions/{sessionID}/company.
func (h *Handler) HandleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[CompanyRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	h.mutate(w, r, "company", models.WithCompany(req.CompanyInfo))
}

// HandleUpdateDevices handles PUT /sessions/{sessionID}/devices.
func (h *Handler) HandleUpdateDevices(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[DevicesRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	h.mutate(w, r, "devices", models.WithDeviceSelection(req.DeviceSelection))
}

// HandleUpdateConsents handles PUT /sessions/{sessionID}/consents.
func (h *Handler) HandleUpdateConsents(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[ConsentsRequest](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return
	}
	h.mutate(w, r, "consents", models.WithConsents(req.Consents))
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, section string, mutation models.Mutation) {
	ctx := r.Context()
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	view, err := h.service.Mutate(ctx, token, mutation)
	if err != nil {
		h.logger.ErrorContext(ctx, "update section failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", token.String(),
			"section", section,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(view))
}

// HandleGoToStep handles POST /sessions/{sessionID}/steps/{step}.
func (h *Handler) HandleGoToStep(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "step must be an integer"))
		return
	}
	sp, err := h.service.GoToStep(r.Context(), token, step)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStep(sp))
}

// HandleForceSave handles POST /sessions/{sessionID}/save.
func (h *Handler) HandleForceSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	if err := h.service.ForceSave(ctx, token); err != nil {
		h.logger.WarnContext(ctx, "force save failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", token.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClose handles DELETE /sessions/{sessionID}.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	if err := h.service.Close(ctx, token); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "wizard session closed",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", token.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandlePresence handles GET /sessions/{sessionID}/presence.
func (h *Handler) HandlePresence(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessionToken(w, r)
	if !ok {
		return
	}
	view, err := h.service.Presence(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPresence(view))
}

func (h *Handler) sessionToken(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	token, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid session id"))
		return id.SessionID{}, false
	}
	return token, true
}

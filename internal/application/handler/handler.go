package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talentlink/internal/application/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/httputil"
	"talentlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/application-mocks.go -package=mocks Service

// Service is the application lifecycle as seen by the HTTP layer.
type Service interface {
	CreateOpportunity(ctx context.Context, industryID id.UserID, role id.Role, title string) (*models.Opportunity, error)
	Apply(ctx context.Context, candidateID id.UserID, role id.Role, opportunityID id.OpportunityID, coverLetter string) (*models.Application, error)
	Transition(ctx context.Context, actorID id.UserID, role id.Role, appID id.ApplicationID, req models.TransitionRequest) (*models.Application, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the write endpoints. Reads are served by the disclosure handler.
func (h *Handler) Register(r chi.Router) {
	r.Post("/opportunities", h.HandleCreateOpportunity)
	r.Post("/applications", h.HandleApply)
	r.Post("/applications/{id}/status", h.HandleTransition)
}

func caller(ctx context.Context) (id.UserID, id.Role, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return id.UserID{}, "", dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return userID, requestcontext.Role(ctx), nil
}

// HandleCreateOpportunity handles POST /opportunities.
func (h *Handler) HandleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, role, err := caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateOpportunityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	opp, err := h.service.CreateOpportunity(ctx, userID, role, req.Title)
	if err != nil {
		h.logger.WarnContext(ctx, "create opportunity failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOpportunityResponse(opp))
}

// HandleApply handles POST /applications.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, role, err := caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ApplyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.Apply(ctx, userID, role, req.parsedOpportunityID, req.CoverLetter)
	if err != nil {
		h.logger.WarnContext(ctx, "apply failed",
			"request_id", requestID,
			"user_id", userID,
			"opportunity_id", req.OpportunityID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application created",
		"request_id", requestID,
		"application_id", app.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, toStateResponse(app))
}

// HandleTransition handles POST /applications/{id}/status.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, role, err := caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.Transition(ctx, userID, role, appID, req.parsed)
	if err != nil {
		h.logger.WarnContext(ctx, "status transition failed",
			"request_id", requestID,
			"application_id", appID,
			"to", req.parsed.To,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application status changed",
		"request_id", requestID,
		"application_id", appID,
		"status", app.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(app))
}

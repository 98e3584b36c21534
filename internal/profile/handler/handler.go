package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentlink/internal/profile/models"
	"talentlink/internal/profile/service"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/httputil"
	"talentlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/profile-mocks.go -package=mocks Service

// Service covers the owner-side profile operations. Reads of other subjects are
// served by the disclosure handler.
type Service interface {
	CreateCandidate(ctx context.Context, userID id.UserID, details models.CandidateDetails) (*models.Candidate, error)
	CreateCompany(ctx context.Context, userID id.UserID, details models.CompanyDetails) (*models.Company, error)
	UpdateVisibility(ctx context.Context, ownerID id.UserID, role id.Role, change service.VisibilityChange) (*service.Visibility, error)
	RenameCandidate(ctx context.Context, ownerID id.UserID, role id.Role, fullName string) (*models.Candidate, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/candidates", h.HandleCreateCandidate)
	r.Post("/companies", h.HandleCreateCompany)
	r.Put("/me/visibility", h.HandleUpdateVisibility)
	r.Put("/me/name", h.HandleRename)
}

// CreatedResponse acknowledges a new profile with its default (all hidden) preferences.
type CreatedResponse struct {
	ID         string    `json:"id"`
	Visibility any       `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

// RenamedResponse echoes the caller's own new name.
type RenamedResponse struct {
	FullName  string    `json:"full_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// requireRole returns the caller when it is authenticated with the given role.
func requireRole(ctx context.Context, role id.Role) (id.UserID, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if requestcontext.Role(ctx) != role {
		return id.UserID{}, dErrors.New(dErrors.CodeForbidden, "profile kind does not match caller role")
	}
	return userID, nil
}

// HandleCreateCandidate handles POST /candidates.
func (h *Handler) HandleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := requireRole(ctx, id.RoleCandidate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateCandidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.CreateCandidate(ctx, userID, req.details())
	if err != nil {
		h.logger.WarnContext(ctx, "create candidate failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, CreatedResponse{ID: c.ID.String(), Visibility: c.Visibility, CreatedAt: c.CreatedAt})
}

// HandleCreateCompany handles POST /companies.
func (h *Handler) HandleCreateCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := requireRole(ctx, id.RoleIndustry)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateCompanyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.CreateCompany(ctx, userID, req.details())
	if err != nil {
		h.logger.WarnContext(ctx, "create company failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, CreatedResponse{ID: c.ID.String(), Visibility: c.Visibility, CreatedAt: c.CreatedAt})
}

// HandleUpdateVisibility handles PUT /me/visibility.
func (h *Handler) HandleUpdateVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[VisibilityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	v, err := h.service.UpdateVisibility(ctx, userID, requestcontext.Role(ctx), req.change())
	if err != nil {
		h.logger.WarnContext(ctx, "visibility update failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "visibility updated",
		"request_id", requestID,
		"user_id", userID,
	)
	if v.Candidate != nil {
		httputil.WriteJSON(w, http.StatusOK, v.Candidate)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v.Company)
}

// HandleRename handles PUT /me/name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := requireRole(ctx, id.RoleCandidate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RenameRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.RenameCandidate(ctx, userID, id.RoleCandidate, req.FullName)
	if err != nil {
		h.logger.WarnContext(ctx, "rename failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RenamedResponse{FullName: c.FullName, UpdatedAt: c.UpdatedAt})
}

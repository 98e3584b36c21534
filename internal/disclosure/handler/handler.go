package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talentlink/internal/disclosure"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/httputil"
	"talentlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/disclosure-mocks.go -package=mocks Service

// Service is the disclosure pipeline. Every read of another subject goes through it.
type Service interface {
	BuildViewer(ctx context.Context) (disclosure.Viewer, error)
	CandidateProfile(ctx context.Context, viewer disclosure.Viewer, candidateID id.UserID) (*disclosure.CandidateView, error)
	CompanyProfile(ctx context.Context, viewer disclosure.Viewer, companyID id.UserID) (*disclosure.CompanyView, error)
	Application(ctx context.Context, viewer disclosure.Viewer, appID id.ApplicationID) (*disclosure.ApplicationView, error)
	Applications(ctx context.Context, viewer disclosure.Viewer) ([]disclosure.ApplicationView, error)
	Interviews(ctx context.Context, viewer disclosure.Viewer) ([]disclosure.InterviewView, error)
	Conversations(ctx context.Context, viewer disclosure.Viewer) ([]disclosure.ConversationView, error)
}

// Handler serves projected views of candidates, companies and applications.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the read endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/candidates/{id}", h.HandleCandidate)
	r.Get("/companies/{id}", h.HandleCompany)
	r.Get("/applications", h.HandleApplications)
	r.Get("/applications/{id}", h.HandleApplication)
	r.Get("/interviews", h.HandleInterviews)
	r.Get("/conversations", h.HandleConversations)
}

type applicationsResponse struct {
	Applications []disclosure.ApplicationView `json:"applications"`
}

type interviewsResponse struct {
	Interviews []disclosure.InterviewView `json:"interviews"`
}

type conversationsResponse struct {
	Conversations []disclosure.ConversationView `json:"conversations"`
}

// viewer builds the ViewerContext or writes the error response.
func (h *Handler) viewer(w http.ResponseWriter, r *http.Request) (disclosure.Viewer, bool) {
	v, err := h.service.BuildViewer(r.Context())
	if err != nil {
		h.fail(w, r, "failed to build viewer context", err)
		return disclosure.Viewer{}, false
	}
	return v, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

// HandleCandidate handles GET /candidates/{id}.
func (h *Handler) HandleCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, ok := h.viewer(w, r)
	if !ok {
		return
	}
	view, err := h.service.CandidateProfile(r.Context(), v, candidateID)
	if err != nil {
		h.fail(w, r, "candidate view failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleCompany handles GET /companies/{id}.
func (h *Handler) HandleCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, ok := h.viewer(w, r)
	if !ok {
		return
	}
	view, err := h.service.CompanyProfile(r.Context(), v, companyID)
	if err != nil {
		h.fail(w, r, "company view failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleApplication handles GET /applications/{id}.
func (h *Handler) HandleApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, ok := h.viewer(w, r)
	if !ok {
		return
	}
	view, err := h.service.Application(r.Context(), v, appID)
	if err != nil {
		h.fail(w, r, "application view failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleApplications handles GET /applications.
func (h *Handler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	v, ok := h.viewer(w, r)
	if !ok {
		return
	}
	views, err := h.service.Applications(r.Context(), v)
	if err != nil {
		h.fail(w, r, "application list failed", err)
		return
	}
	if views == nil {
		views = []disclosure.ApplicationView{}
	}
	httputil.WriteJSON(w, http.StatusOK, applicationsResponse{Applications: views})
}

// HandleInterviews handles GET /interviews.
func (h *Handler) HandleInterviews(w http.ResponseWriter, r *http.Request) {
	v, ok := h.viewer(w, r)
	if !ok {
		return
	}
	views, err := h.service.Interviews(r.Context(), v)
	if err != nil {
		h.fail(w, r, "interview list failed", err)
		return
	}
	if views == nil {
		views = []disclosure.InterviewView{}
	}
	httputil.WriteJSON(w, http.StatusOK, interviewsResponse{Interviews: views})
}

// HandleConversations handles GET /conversations.
func (h *Handler) HandleConversations(w http.ResponseWriter, r *http.Request) {
	v, ok := h.viewer(w, r)
	if !ok {
		return
	}
	views, err := h.service.Conversations(r.Context(), v)
	if err != nil {
		h.fail(w, r, "conversation list failed", err)
		return
	}
	if views == nil {
		views = []disclosure.ConversationView{}
	}
	httputil.WriteJSON(w, http.StatusOK, conversationsResponse{Conversations: views})
}

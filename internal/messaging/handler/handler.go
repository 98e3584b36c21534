package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"talentlink/internal/messaging/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/httputil"
	"talentlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/messaging-mocks.go -package=mocks Service

type Service interface {
	Send(ctx context.Context, senderID id.UserID, role id.Role, appID id.ApplicationID, body string) (*models.Message, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/applications/{id}/messages", h.HandleSend)
}

// SendRequest is the body for POST /applications/{id}/messages.
type SendRequest struct {
	Body string `json:"body"`
}

func (r *SendRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Body = strings.TrimSpace(r.Body)
	if r.Body == "" {
		return dErrors.New(dErrors.CodeValidation, "body is required")
	}
	return nil
}

// MessageResponse omits the recipient: the counterpart is only ever exposed through
// a projected view.
type MessageResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	Body          string    `json:"body"`
	SentAt        time.Time `json:"sent_at"`
}

// HandleSend handles POST /applications/{id}/messages.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	msg, err := h.service.Send(ctx, userID, requestcontext.Role(ctx), appID, req.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "send message failed",
			"request_id", requestID,
			"application_id", appID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, MessageResponse{
		ID:            msg.ID.String(),
		ApplicationID: msg.ApplicationID.String(),
		Body:          msg.Body,
		SentAt:        msg.SentAt,
	})
}

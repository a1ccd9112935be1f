package httpapi

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/session"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionService is the part of the session controller the HTTP API uses.
type SessionService interface {
	Create(ctx context.Context, id string) (schema.Session, error)
	Get(ctx context.Context, id string) (schema.Session, error)
	Dispatch(ctx context.Context, id string, in session.Intent, caps session.Capabilities) (session.Result, error)
	Close(ctx context.Context, id string) error
}

type SessionHandler struct {
	sessions SessionService
	logger   *zap.Logger
}

func NewSessionHandler(sessions SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	s, err := h.sessions.Create(c.Request.Context(), req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionEnvelope{Session: ToSessionResponse(s)})
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionEnvelope{Session: ToSessionResponse(s)})
}

// Dispatch applies one intent. The browser is the clipboard: a share payload
// is always returned for the client to copy, and confirmation comes from the
// request body.
func (h *SessionHandler) Dispatch(c *gin.Context) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	caps := session.Capabilities{
		Confirm: session.ConfirmFunc(func(context.Context, string) bool {
			return req.Confirm
		}),
		Clipboard: responseClipboard{},
	}
	res, err := h.sessions.Dispatch(c.Request.Context(), c.Param("id"), req.Intent(), caps)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToIntentResponse(res))
}

func (h *SessionHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) fail(c *gin.Context, err error) {
	var verr *errorz.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, errorz.ErrInvalidIntent):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errorz.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errorz.ErrGuard), errors.Is(err, errorz.ErrAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("session request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", RequestIDFrom(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// responseClipboard accepts every write; the text travels back in the
// response body.
type responseClipboard struct{}

func (responseClipboard) WriteText(context.Context, string) error { return nil }

// Package server exposes dashboards and repository reports over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/naka-gawa/gh-dashboard/internal/domain"
)

// Service is the subset of the use case layer served over HTTP.
type Service interface {
	Dashboard(ctx context.Context, username string) (*domain.Dashboard, error)
	Stats(ctx context.Context, username string) (domain.AggregateStats, error)
	Repository(ctx context.Context, owner, repo string) (*domain.RepoReport, error)
}

// Handler serves the HTTP endpoints on top of a Service.
type Handler struct {
	svc Service
	log *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dashboard handles GET /users/:username.
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Stats handles GET /users/:username/stats.
func (h *Handler) Stats(c *gin.Context) {
	s, err := h.svc.Stats(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Repository handles GET /repos/:owner/:repo.
func (h *Handler) Repository(c *gin.Context) {
	r, err := h.svc.Repository(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.HTTPStatus >= http.StatusInternalServerError {
			h.log.Warn("upstream failure", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		c.JSON(de.HTTPStatus, ErrorResponse{
			Error: ErrorBody{
				Code:    string(de.Code),
				Message: de.Message,
			},
		})
		return
	}

	h.log.Error("internal error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorBody{
			Code:    string(domain.ErrorCodeInternal),
			Message: "internal server error",
		},
	})
}

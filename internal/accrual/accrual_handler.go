package accrual

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("accrual.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accrual.handler")
	}
	return &Handler{repo: repo, logger: l}
}

// GetMine returns the caller's accrual history, newest first.
func (h *Handler) GetMine(c *gin.Context) {
	userID := c.GetString("user_id_validated")

	entries, err := h.repo.FindByUser(c.Request.Context(), userID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("accrual history request failed",
			zap.String("user_id", userID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, mapToListResponse(entries), nil)
}

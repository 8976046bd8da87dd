package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoestudio/enroll-api/internal/models"
	"github.com/yoestudio/enroll-api/pkg/response"
)

type catalogService interface {
	List(ctx context.Context) ([]models.GroupView, error)
}

// GroupHandler exposes the public group catalog.
type GroupHandler struct {
	catalog catalogService
}

// NewGroupHandler constructs GroupHandler.
func NewGroupHandler(catalog catalogService) *GroupHandler {
	return &GroupHandler{catalog: catalog}
}

// List godoc
// @Summary List course groups with seat availability
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

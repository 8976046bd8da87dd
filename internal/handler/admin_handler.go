package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoestudio/enroll-api/internal/dto"
	"github.com/yoestudio/enroll-api/internal/models"
	"github.com/yoestudio/enroll-api/internal/service"
	"github.com/yoestudio/enroll-api/pkg/response"
)

type enrollmentAdminService interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	Approve(ctx context.Context, id string, actor *models.JWTClaims) error
	Reject(ctx context.Context, id string, actor *models.JWTClaims) error
	FetchProof(ctx context.Context, id string) (*service.ProofDownload, error)
	Export(ctx context.Context, format string, actor *models.JWTClaims) (*service.LedgerExport, error)
}

// AdminHandler exposes the back-office enrollment endpoints.
type AdminHandler struct {
	enrollments enrollmentAdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(enrollments enrollmentAdminService) *AdminHandler {
	return &AdminHandler{enrollments: enrollments}
}

// List godoc
// @Summary List all enrollment requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/enrollments [get]
func (h *AdminHandler) List(c *gin.Context) {
	enrollments, err := h.enrollments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments)
}

// Approve godoc
// @Summary Approve an enrollment request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/approve/{enrollmentId} [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	if err := h.enrollments.Approve(c.Request.Context(), c.Param("enrollmentId"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DecisionResponse{OK: true})
}

// Reject godoc
// @Summary Reject an enrollment request and release its seat
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reject/{enrollmentId} [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	if err := h.enrollments.Reject(c.Request.Context(), c.Param("enrollmentId"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DecisionResponse{OK: true})
}

// Proof godoc
// @Summary Download the stored payment proof for an enrollment
// @Tags Admin
// @Produce octet-stream
// @Security BearerAuth
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /admin/proof/{enrollmentId} [get]
func (h *AdminHandler) Proof(c *gin.Context) {
	proof, err := h.enrollments.FetchProof(c.Request.Context(), c.Param("enrollmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer proof.File.Close() //nolint:errcheck

	info, err := proof.File.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", proof.Filename))
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", proof.File, nil)
}

// Export godoc
// @Summary Export the enrollment ledger
// @Tags Admin
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /admin/enrollments/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	result, err := h.enrollments.Export(c.Request.Context(), c.DefaultQuery("format", "csv"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

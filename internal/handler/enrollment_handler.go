package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoestudio/enroll-api/internal/dto"
	"github.com/yoestudio/enroll-api/internal/models"
	"github.com/yoestudio/enroll-api/internal/service"
	appErrors "github.com/yoestudio/enroll-api/pkg/errors"
	"github.com/yoestudio/enroll-api/pkg/response"
)

type enrollmentSubmitter interface {
	Submit(ctx context.Context, req dto.SubmitEnrollmentRequest, proof service.ProofUpload) (*models.Enrollment, error)
	LookupByCode(ctx context.Context, code string) (*models.EnrollmentDetail, error)
}

// EnrollmentHandler exposes the public enrollment endpoints.
type EnrollmentHandler struct {
	enrollments  enrollmentSubmitter
	maxProofSize int64
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentSubmitter, maxProofSize int64) *EnrollmentHandler {
	if maxProofSize <= 0 {
		maxProofSize = 5 * 1024 * 1024
	}
	return &EnrollmentHandler{enrollments: enrollments, maxProofSize: maxProofSize}
}

// Submit godoc
// @Summary Submit an enrollment request with payment proof
// @Tags Enrollment
// @Accept multipart/form-data
// @Produce json
// @Param studentName formData string true "Student name"
// @Param guardianName formData string true "Guardian name"
// @Param phone formData string true "Contact phone"
// @Param groupId formData string true "Group ID"
// @Param proofFile formData file true "Payment proof"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollment [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	var req dto.SubmitEnrollmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	fileHeader, err := c.FormFile("proofFile")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proof file is required"))
		return
	}
	if fileHeader.Size > h.maxProofSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "proof file too large"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open proof file"))
		return
	}
	defer src.Close() //nolint:errcheck
	data, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read proof file"))
		return
	}

	enrollment, err := h.enrollments.Submit(c.Request.Context(), req, service.ProofUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SubmitEnrollmentResponse{Code: enrollment.PublicCode, Status: enrollment.Status})
}

// Lookup godoc
// @Summary Look up enrollment status by public code
// @Tags Enrollment
// @Produce json
// @Param code path string true "Public code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollment/lookup/{code} [get]
func (h *EnrollmentHandler) Lookup(c *gin.Context) {
	detail, err := h.enrollments.LookupByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StatusLookupResponse{
		Code:          detail.PublicCode,
		StudentName:   detail.StudentName,
		GuardianName:  detail.GuardianName,
		Phone:         detail.Phone,
		CourseName:    detail.CourseName,
		StartDate:     detail.StartDate,
		ScheduleLabel: detail.ScheduleLabel,
		Status:        detail.Status,
	})
}

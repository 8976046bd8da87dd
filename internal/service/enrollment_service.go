package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoestudio/enroll-api/internal/dto"
	"github.com/yoestudio/enroll-api/internal/models"
	appErrors "github.com/yoestudio/enroll-api/pkg/errors"
	"github.com/yoestudio/enroll-api/pkg/export"
)

const publicCodePrefix = "YE-"

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByCode(ctx context.Context, code string) (*models.EnrollmentDetail, error)
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
}

// seatAllocator is the only collaborator allowed to touch seat counters.
type seatAllocator interface {
	ReserveSeat(ctx context.Context, groupID string) (bool, error)
	ReleaseSeat(ctx context.Context, groupID string) error
}

type proofStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Exists(filename string) bool
	Delete(filename string) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ProofUpload carries the uploaded payment proof.
type ProofUpload struct {
	Filename string
	Data     []byte
}

// ProofDownload bundles an open proof file with its stored filename.
type ProofDownload struct {
	File     *os.File
	Filename string
}

// LedgerExport is a rendered ledger document ready for download.
type LedgerExport struct {
	Content     []byte
	Filename    string
	ContentType string
}

// EnrollmentService orchestrates the enrollment lifecycle: submission with
// seat reservation and proof storage, public status lookup, and the admin
// approve/reject workflow.
type EnrollmentService struct {
	repo      enrollmentRepository
	groups    seatAllocator
	storage   proofStorage
	audit     auditLogger
	catalog   *CatalogService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, groups seatAllocator, storage proofStorage, audit auditLogger, catalog *CatalogService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		groups:    groups,
		storage:   storage,
		audit:     audit,
		catalog:   catalog,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Submit reserves a seat, stores the proof, and creates the pending record.
// The seat is reserved first; on any later failure the reservation (and the
// stored proof, if any) is rolled back so no seat leaks.
func (s *EnrollmentService) Submit(ctx context.Context, req dto.SubmitEnrollmentRequest, proof ProofUpload) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if len(proof.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "proof file is required")
	}

	reserved, err := s.groups.ReserveSeat(ctx, req.GroupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve seat")
	}
	if !reserved {
		return nil, appErrors.ErrSeatsFull
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(proof.Filename))
	path, err := s.storage.Save(filename, proof.Data)
	if err != nil {
		s.releaseReservation(ctx, req.GroupID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store proof")
	}

	enrollment := &models.Enrollment{
		PublicCode:   generatePublicCode(),
		StudentName:  req.StudentName,
		GuardianName: req.GuardianName,
		Phone:        req.Phone,
		GroupID:      req.GroupID,
		Status:       models.EnrollmentStatusPending,
		ProofPath:    path,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		s.releaseReservation(ctx, req.GroupID)
		if delErr := s.storage.Delete(path); delErr != nil {
			s.logger.Warn("failed to remove orphaned proof", zap.String("path", path), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.catalog.Invalidate(ctx)
	if s.metrics != nil {
		s.metrics.RecordEnrollmentEvent("submitted")
	}
	return enrollment, nil
}

// LookupByCode returns the enrollment joined with its group for the public
// status page.
func (s *EnrollmentService) LookupByCode(ctx context.Context, code string) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "code not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up enrollment")
	}
	return detail, nil
}

// List returns the full ledger for the admin console.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Approve marks an enrollment approved. Prior status is not checked: the
// admin console treats approve as an overwrite, and seat counters are never
// touched here.
func (s *EnrollmentService) Approve(ctx context.Context, id string, actor *models.JWTClaims) error {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.repo.UpdateStatus(ctx, enrollment.ID, models.EnrollmentStatusApproved); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}
	s.emitDecisionAudit(ctx, models.AuditActionEnrollmentApprove, enrollment, actor)
	if s.metrics != nil {
		s.metrics.RecordEnrollmentEvent("approved")
	}
	return nil
}

// Reject marks an enrollment rejected and frees its seat. The release only
// happens when the record was not already rejected, so repeated rejects
// cannot free a seat held by another enrollment.
func (s *EnrollmentService) Reject(ctx context.Context, id string, actor *models.JWTClaims) error {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	if enrollment.Status != models.EnrollmentStatusRejected {
		if err := s.groups.ReleaseSeat(ctx, enrollment.GroupID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release seat")
		}
		s.catalog.Invalidate(ctx)
	}

	if err := s.repo.UpdateStatus(ctx, enrollment.ID, models.EnrollmentStatusRejected); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}
	s.emitDecisionAudit(ctx, models.AuditActionEnrollmentReject, enrollment, actor)
	if s.metrics != nil {
		s.metrics.RecordEnrollmentEvent("rejected")
	}
	return nil
}

// FetchProof opens the stored proof file for an enrollment.
func (s *EnrollmentService) FetchProof(ctx context.Context, id string) (*ProofDownload, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if !s.storage.Exists(enrollment.ProofPath) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proof file not found")
	}
	file, err := s.storage.Open(enrollment.ProofPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open proof file")
	}
	return &ProofDownload{File: file, Filename: filepath.Base(enrollment.ProofPath)}, nil
}

// Export renders the ledger as CSV or PDF for the admin console.
func (s *EnrollmentService) Export(ctx context.Context, format string, actor *models.JWTClaims) (*LedgerExport, error) {
	enrollments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Code", "Student", "Guardian", "Phone", "Course", "Schedule", "Status", "Submitted"},
	}
	for _, e := range enrollments {
		data.Rows = append(data.Rows, []string{
			e.PublicCode,
			e.StudentName,
			e.GuardianName,
			e.Phone,
			e.CourseName,
			e.ScheduleLabel,
			string(e.Status),
			e.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	var result LedgerExport
	switch strings.ToLower(format) {
	case "", "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		result = LedgerExport{Content: content, Filename: "enrollments.csv", ContentType: "text/csv"}
	case "pdf":
		content, err := s.pdf.Render(data, "Enrollment Ledger")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		result = LedgerExport{Content: content, Filename: "enrollments.pdf", ContentType: "application/pdf"}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	if actor != nil && s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:    &actor.UserID,
			Action:    models.AuditActionLedgerExport,
			Resource:  "enrollment",
			NewValues: []byte(fmt.Sprintf(`{"format":%q,"rows":%d}`, format, len(data.Rows))),
		}); err != nil {
			s.logger.Warn("failed to record export audit log", zap.Error(err))
		}
	}
	return &result, nil
}

func (s *EnrollmentService) releaseReservation(ctx context.Context, groupID string) {
	if err := s.groups.ReleaseSeat(ctx, groupID); err != nil {
		s.logger.Error("failed to release reserved seat during rollback",
			zap.String("group_id", groupID), zap.Error(err))
	}
}

func (s *EnrollmentService) emitDecisionAudit(ctx context.Context, action string, enrollment *models.Enrollment, actor *models.JWTClaims) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     action,
		Resource:   "enrollment",
		ResourceID: &enrollment.ID,
		NewValues:  []byte(fmt.Sprintf(`{"code":%q,"group_id":%q}`, enrollment.PublicCode, enrollment.GroupID)),
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record decision audit log", zap.Error(err))
	}
}

// generatePublicCode builds the short shareable identifier applicants use
// for status lookups: a fixed prefix plus six random hex characters.
// Uniqueness is enforced by the database index; the collision probability
// is negligible at this scale.
func generatePublicCode() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return publicCodePrefix + strings.ToUpper(uuid.NewString()[:6])
	}
	return publicCodePrefix + strings.ToUpper(hex.EncodeToString(buf))
}

package dto

import "github.com/yoestudio/enroll-api/internal/models"

// SubmitEnrollmentRequest is the multipart form payload for a new
// enrollment request. The proof file travels separately as "proofFile".
type SubmitEnrollmentRequest struct {
	StudentName  string `form:"studentName" validate:"required"`
	GuardianName string `form:"guardianName" validate:"required"`
	Phone        string `form:"phone" validate:"required"`
	GroupID      string `form:"groupId" validate:"required"`
}

// SubmitEnrollmentResponse is what applicants get back: the shareable code
// and the initial status.
type SubmitEnrollmentResponse struct {
	Code   string                  `json:"code"`
	Status models.EnrollmentStatus `json:"status"`
}

// StatusLookupResponse is the public status view joined with group info.
type StatusLookupResponse struct {
	Code          string                  `json:"code"`
	StudentName   string                  `json:"student_name"`
	GuardianName  string                  `json:"guardian_name"`
	Phone         string                  `json:"phone"`
	CourseName    string                  `json:"course_name"`
	StartDate     string                  `json:"start_date"`
	ScheduleLabel string                  `json:"schedule_label"`
	Status        models.EnrollmentStatus `json:"status"`
}

// DecisionResponse acknowledges an approve/reject action.
type DecisionResponse struct {
	OK bool `json:"ok"`
}

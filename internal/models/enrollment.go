package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment request.
type EnrollmentStatus string

// Possible enrollment statuses. A request starts pending and is moved to
// approved or rejected by an admin decision.
const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusApproved EnrollmentStatus = "approved"
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

// Enrollment captures one applicant's request to join a group, together
// with the stored payment-proof reference.
type Enrollment struct {
	ID           string           `db:"id" json:"id"`
	PublicCode   string           `db:"public_code" json:"public_code"`
	StudentName  string           `db:"student_name" json:"student_name"`
	GuardianName string           `db:"guardian_name" json:"guardian_name"`
	Phone        string           `db:"phone" json:"phone"`
	GroupID      string           `db:"group_id" json:"group_id"`
	Status       EnrollmentStatus `db:"status" json:"status"`
	ProofPath    string           `db:"proof_path" json:"proof_path"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with the group's descriptive fields
// for the public status lookup.
type EnrollmentDetail struct {
	Enrollment
	CourseName    string `db:"course_name" json:"course_name"`
	StartDate     string `db:"start_date" json:"start_date"`
	ScheduleLabel string `db:"schedule_label" json:"schedule_label"`
}

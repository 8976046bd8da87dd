package models

// Group represents a scheduled course offering with a fixed seat capacity.
// The id is human-assigned at seed time (e.g. "ucr_una_1_3") and referenced
// directly by the enrollment form.
type Group struct {
	ID            string `db:"id" json:"id"`
	CourseName    string `db:"course_name" json:"course_name"`
	StartDate     string `db:"start_date" json:"start_date"`
	ScheduleLabel string `db:"schedule_label" json:"schedule_label"`
	SeatCapacity  int    `db:"seat_capacity" json:"seat_capacity"`
	SeatsOccupied int    `db:"seats_occupied" json:"seats_occupied"`
}

// SeatsAvailable derives the open seat count. It is never persisted.
func (g Group) SeatsAvailable() int {
	return g.SeatCapacity - g.SeatsOccupied
}

// GroupView is the listing shape returned to clients, with the derived
// availability included.
type GroupView struct {
	Group
	SeatsAvailable int `json:"seats_available"`
}

// NewGroupView computes the derived field for a group.
func NewGroupView(g Group) GroupView {
	return GroupView{Group: g, SeatsAvailable: g.SeatsAvailable()}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yoestudio/enroll-api/internal/models"
)

// GroupRepository handles persistence of course groups and is the only
// code path allowed to mutate seats_occupied.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns all groups in catalog order.
func (r *GroupRepository) List(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT id, course_name, start_date, schedule_label, seat_capacity, seats_occupied
        FROM groups ORDER BY sort_order, id`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ReserveSeat atomically claims one seat. The conditional update keeps the
// capacity invariant intact under concurrent submissions. It returns true
// when a seat was taken, false when the group is full, and sql.ErrNoRows
// when the group does not exist.
func (r *GroupRepository) ReserveSeat(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE groups SET seats_occupied = seats_occupied + 1
        WHERE id = $1 AND seats_occupied < seat_capacity`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("reserve seat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve seat result: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM groups WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, sql.ErrNoRows
		}
		return false, fmt.Errorf("check group: %w", err)
	}
	return false, nil
}

// ReleaseSeat frees one seat, clamped at zero. The clamp is a defensive
// floor, not a counting guarantee. Returns sql.ErrNoRows when the group is
// absent.
func (r *GroupRepository) ReleaseSeat(ctx context.Context, id string) error {
	const query = `UPDATE groups SET seats_occupied = GREATEST(seats_occupied - 1, 0) WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release seat result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Upsert inserts a group or refreshes its descriptive fields, leaving the
// occupancy counter untouched for existing rows. Used by the seed tool.
func (r *GroupRepository) Upsert(ctx context.Context, group *models.Group, sortOrder int) error {
	const query = `INSERT INTO groups (id, course_name, start_date, schedule_label, seat_capacity, seats_occupied, sort_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE SET
            course_name = EXCLUDED.course_name,
            start_date = EXCLUDED.start_date,
            schedule_label = EXCLUDED.schedule_label,
            seat_capacity = EXCLUDED.seat_capacity,
            sort_order = EXCLUDED.sort_order`
	if _, err := r.db.ExecContext(ctx, query, group.ID, group.CourseName, group.StartDate,
		group.ScheduleLabel, group.SeatCapacity, group.SeatsOccupied, sortOrder); err != nil {
		return fmt.Errorf("upsert group: %w", err)
	}
	return nil
}

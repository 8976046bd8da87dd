package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/yoestudio/enroll-api/internal/models"
	"github.com/yoestudio/enroll-api/internal/repository"
	"github.com/yoestudio/enroll-api/pkg/config"
	"github.com/yoestudio/enroll-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id             TEXT PRIMARY KEY,
    course_name    TEXT NOT NULL,
    start_date     TEXT NOT NULL,
    schedule_label TEXT NOT NULL,
    seat_capacity  INTEGER NOT NULL CHECK (seat_capacity >= 0),
    seats_occupied INTEGER NOT NULL DEFAULT 0 CHECK (seats_occupied >= 0 AND seats_occupied <= seat_capacity),
    sort_order     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS enrollments (
    id            UUID PRIMARY KEY,
    public_code   TEXT NOT NULL UNIQUE,
    student_name  TEXT NOT NULL,
    guardian_name TEXT NOT NULL,
    phone         TEXT NOT NULL,
    group_id      TEXT NOT NULL REFERENCES groups(id),
    status        TEXT NOT NULL DEFAULT 'pending',
    proof_path    TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_enrollments_public_code ON enrollments(public_code);
CREATE INDEX IF NOT EXISTS idx_enrollments_group_id ON enrollments(group_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    last_login    TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id          UUID PRIMARY KEY,
    user_id     UUID,
    action      TEXT NOT NULL,
    resource    TEXT NOT NULL,
    resource_id TEXT,
    new_values  JSONB,
    ip_address  TEXT NOT NULL DEFAULT '',
    user_agent  TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// launchGroups is the initial catalog for the 2026 admission season.
var launchGroups = []models.Group{
	{
		ID:            "ucr_una_1_3",
		CourseName:    "Admisión UCR–UNA",
		StartDate:     "2026-02-14",
		ScheduleLabel: "1:00 p.m. – 3:00 p.m.",
		SeatCapacity:  6,
	},
	{
		ID:            "ucr_una_tec_10_12",
		CourseName:    "Admisión UCR–UNA–TEC",
		StartDate:     "2026-02-14",
		ScheduleLabel: "10:00 a.m. – 12:00 m.d.",
		SeatCapacity:  6,
	},
	{
		ID:            "ucr_una_tec_3_5",
		CourseName:    "Admisión UCR–UNA–TEC",
		StartDate:     "2026-02-14",
		ScheduleLabel: "3:00 p.m. – 5:00 p.m.",
		SeatCapacity:  6,
	},
}

func main() {
	adminEmail := flag.String("admin-email", "", "admin account email to create or update")
	adminPassword := flag.String("admin-password", "", "admin account password")
	adminName := flag.String("admin-name", "Administrator", "admin account display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := applySchema(ctx, db); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	groups := repository.NewGroupRepository(db)
	for i, group := range launchGroups {
		g := group
		if err := groups.Upsert(ctx, &g, i); err != nil {
			log.Fatalf("failed to seed group %s: %v", g.ID, err)
		}
		log.Printf("seeded group %s (%d seats)", g.ID, g.SeatCapacity)
	}

	if *adminEmail != "" {
		if *adminPassword == "" {
			log.Fatal("-admin-password is required when -admin-email is set")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		users := repository.NewUserRepository(db)
		user := &models.AdminUser{
			Email:        *adminEmail,
			PasswordHash: string(hash),
			FullName:     *adminName,
			Active:       true,
		}
		if err := users.Upsert(ctx, user); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		log.Printf("seeded admin account %s", *adminEmail)
	}
}

func applySchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

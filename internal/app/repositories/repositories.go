package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository error types shared by all repositories.
var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailExists is returned when a student email is already registered.
	ErrEmailExists = errors.New("email already registered")
	// ErrCourseCodeExists is returned when a course code is already taken.
	ErrCourseCodeExists = errors.New("course code already exists")
	// ErrAlreadyEnrolled is returned when the (student, course) pair already has an enrollment.
	ErrAlreadyEnrolled = errors.New("student already enrolled in course")
	// ErrStudentGone is returned when an enrollment references a student removed concurrently.
	ErrStudentGone = errors.New("referenced student no longer exists")
	// ErrCourseFull is returned when the occupancy counter is already at capacity.
	ErrCourseFull = errors.New("course is at capacity")
	// ErrUsernameExists is returned when an admin username is already taken.
	ErrUsernameExists = errors.New("username already exists")
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository    *StudentRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
	AdminRepository      *AdminRepository
}

// NewRepositories initializes all repositories. txMaxAttempts bounds how often
// a transaction aborted by a concurrent update is re-run.
func NewRepositories(db *pgxpool.Pool, txMaxAttempts int) *Repositories {
	return &Repositories{
		StudentRepository:    NewStudentRepository(db, txMaxAttempts),
		CourseRepository:     NewCourseRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db, txMaxAttempts),
		AdminRepository:      NewAdminRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

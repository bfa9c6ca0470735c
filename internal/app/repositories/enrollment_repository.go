package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/db"
	"github.com/yigit/edutrack/internal/pkg/dberrors"
	"github.com/yigit/edutrack/internal/pkg/logger"
)

var enrollmentDetailColumns = []string{
	"e.enrollment_id", "e.student_id", "e.course_id", "e.enrollment_date", "e.grade", "e.status",
	"s.name", "s.email", "s.phone",
	"c.course_code", "c.course_name", "c.credits", "c.instructor",
}

// EnrollmentTx is the set of statements the enrollment workflow runs inside
// one transaction. Locks must be taken in the order student, course, enrollment.
type EnrollmentTx interface {
	// LockStudent reads the student and keeps its key locked against
	// deletion until the transaction ends. Returns ErrNotFound when absent.
	LockStudent(ctx context.Context, studentID int64) (*models.Student, error)
	// LockCourse reads the course and holds its row lock until the
	// transaction ends. Returns ErrNotFound when absent.
	LockCourse(ctx context.Context, courseID int64) (*models.Course, error)
	EnrollmentExists(ctx context.Context, studentID, courseID int64) (bool, error)
	// InsertEnrollment stores the enrollment and fills its generated fields.
	InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	IncrementCourseEnrollment(ctx context.Context, courseID int64) error
	FindEnrollment(ctx context.Context, enrollmentID int64) (*models.Enrollment, error)
	// DeleteEnrollment removes the enrollment only if it still belongs to courseID.
	DeleteEnrollment(ctx context.Context, enrollmentID, courseID int64) error
	// DecrementCourseEnrollment lowers the counter, never below zero.
	DecrementCourseEnrollment(ctx context.Context, courseID int64) error
}

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db            *pgxpool.Pool
	sb            squirrel.StatementBuilderType
	txMaxAttempts int
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool, txMaxAttempts int) *EnrollmentRepository {
	return &EnrollmentRepository{
		db:            db,
		sb:            statementBuilder(),
		txMaxAttempts: txMaxAttempts,
	}
}

// WithinTx runs fn in a transaction. fn may be re-run when the transaction
// is aborted by a concurrent update, so it must not have side effects outside tx.
func (r *EnrollmentRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx EnrollmentTx) error) error {
	return db.WithTransaction(ctx, r.db, r.txMaxAttempts, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &enrollmentTx{tx: tx, sb: r.sb})
	})
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	var status string
	if err := row.Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.CourseID,
		&enrollment.EnrollmentDate,
		&enrollment.Grade,
		&status,
	); err != nil {
		return nil, err
	}
	enrollment.Status = models.EnrollmentStatus(status)
	return &enrollment, nil
}

func scanEnrollmentDetail(row pgx.Row) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	var status string
	if err := row.Scan(
		&detail.ID,
		&detail.StudentID,
		&detail.CourseID,
		&detail.EnrollmentDate,
		&detail.Grade,
		&status,
		&detail.StudentName,
		&detail.StudentEmail,
		&detail.StudentPhone,
		&detail.CourseCode,
		&detail.CourseName,
		&detail.Credits,
		&detail.Instructor,
	); err != nil {
		return nil, err
	}
	detail.Status = models.EnrollmentStatus(status)
	return &detail, nil
}

func (r *EnrollmentRepository) detailQuery() squirrel.SelectBuilder {
	return r.sb.Select(enrollmentDetailColumns...).
		From("enrollments e").
		Join("students s ON s.student_id = e.student_id").
		Join("courses c ON c.course_id = e.course_id")
}

// GetByID retrieves an enrollment joined with its student and course
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	sql, args, err := r.detailQuery().Where(squirrel.Eq{"e.enrollment_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	detail, err := scanEnrollmentDetail(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error retrieving enrollment")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return detail, nil
}

// List returns enrollments matching filter, newest first
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	query := r.detailQuery()
	if filter.StudentID > 0 {
		query = query.Where(squirrel.Eq{"e.student_id": filter.StudentID})
	}
	if filter.CourseID > 0 {
		query = query.Where(squirrel.Eq{"e.course_id": filter.CourseID})
	}

	sql, args, err := query.OrderBy("e.enrollment_date DESC", "e.enrollment_id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", filter.StudentID).Int64("courseID", filter.CourseID).Msg("Error listing enrollments")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.EnrollmentDetail{}
	for rows.Next() {
		detail, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// Update writes the grade and status fields present in patch. The student,
// course and counter are never touched.
func (r *EnrollmentRepository) Update(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.Enrollment, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	sql, args, err := r.sb.Update("enrollments").
		Set("grade", squirrel.Expr("COALESCE(?, grade)", patch.Grade)).
		Set("status", squirrel.Expr("COALESCE(?, status)", status)).
		Where(squirrel.Eq{"enrollment_id": id}).
		Suffix("RETURNING enrollment_id, student_id, course_id, enrollment_date, grade, status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error updating enrollment")
		return nil, fmt.Errorf("error updating enrollment: %w", err)
	}

	logger.Info().Int64("enrollmentID", id).Msg("Enrollment updated successfully")
	return enrollment, nil
}

// enrollmentTx implements EnrollmentTx on a pgx transaction
type enrollmentTx struct {
	tx querier
	sb squirrel.StatementBuilderType
}

func (t *enrollmentTx) LockStudent(ctx context.Context, studentID int64) (*models.Student, error) {
	sql, args, err := t.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Suffix("FOR KEY SHARE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock student query: %w", err)
	}

	student, err := scanStudent(t.tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error locking student: %w", err)
	}
	return student, nil
}

func (t *enrollmentTx) LockCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	sql, args, err := t.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"course_id": courseID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock course query: %w", err)
	}

	course, err := scanCourse(t.tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error locking course: %w", err)
	}
	return course, nil
}

func (t *enrollmentTx) EnrollmentExists(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}
	return exists, nil
}

func (t *enrollmentTx) InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}

	sql, args, err := t.sb.Insert("enrollments").
		Columns("student_id", "course_id", "status").
		Values(enrollment.StudentID, enrollment.CourseID, string(enrollment.Status)).
		Suffix("RETURNING enrollment_id, enrollment_date").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert enrollment query: %w", err)
	}

	err = t.tx.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.EnrollmentDate)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "enrollments_student_course_key"):
			return ErrAlreadyEnrolled
		case dberrors.IsForeignKeyViolation(err):
			return ErrStudentGone
		}
		logger.Error().Err(err).Int64("studentID", enrollment.StudentID).Int64("courseID", enrollment.CourseID).Msg("Error inserting enrollment")
		return fmt.Errorf("error inserting enrollment: %w", err)
	}
	return nil
}

func (t *enrollmentTx) IncrementCourseEnrollment(ctx context.Context, courseID int64) error {
	sql, args, err := t.sb.Update("courses").
		Set("current_enrollment", squirrel.Expr("current_enrollment + 1")).
		Where(squirrel.Eq{"course_id": courseID}).
		Where("current_enrollment < max_capacity").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build increment query: %w", err)
	}

	result, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error incrementing course enrollment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCourseFull
	}
	return nil
}

func (t *enrollmentTx) FindEnrollment(ctx context.Context, enrollmentID int64) (*models.Enrollment, error) {
	sql, args, err := t.sb.Select("enrollment_id", "student_id", "course_id", "enrollment_date", "grade", "status").
		From("enrollments").
		Where(squirrel.Eq{"enrollment_id": enrollmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(t.tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding enrollment: %w", err)
	}
	return enrollment, nil
}

func (t *enrollmentTx) DeleteEnrollment(ctx context.Context, enrollmentID, courseID int64) error {
	sql, args, err := t.sb.Delete("enrollments").
		Where(squirrel.Eq{"enrollment_id": enrollmentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	result, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *enrollmentTx) DecrementCourseEnrollment(ctx context.Context, courseID int64) error {
	sql, args, err := t.sb.Update("courses").
		Set("current_enrollment", squirrel.Expr("GREATEST(current_enrollment - 1, 0)")).
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build decrement query: %w", err)
	}

	if _, err := t.tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error decrementing course enrollment: %w", err)
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/pkg/dberrors"
	"github.com/yigit/edutrack/internal/pkg/logger"
)

var courseColumns = []string{
	"course_id", "course_code", "course_name", "description", "credits",
	"instructor", "max_capacity", "current_enrollment", "status",
}

const courseReturning = "RETURNING course_id, course_code, course_name, description, credits, instructor, max_capacity, current_enrollment, status"

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var status string
	if err := row.Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.Description,
		&course.Credits,
		&course.Instructor,
		&course.MaxCapacity,
		&course.CurrentEnrollment,
		&status,
	); err != nil {
		return nil, err
	}
	course.Status = models.CourseStatus(status)
	return &course, nil
}

// Create inserts a course. The occupancy counter always starts at zero.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("course_code", "course_name", "description", "credits", "instructor", "max_capacity", "status").
		Values(course.CourseCode, course.CourseName, course.Description, course.Credits,
			course.Instructor, course.MaxCapacity, string(course.Status)).
		Suffix(courseReturning).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	created, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_course_code_key") {
			logger.Warn().Str("courseCode", course.CourseCode).Msg("Attempted to create course with duplicate code")
			return ErrCourseCodeExists
		}
		logger.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	*course = *created
	logger.Info().Int64("courseID", course.ID).Str("courseCode", course.CourseCode).Msg("Course created successfully")
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"course_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error retrieving course")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// List returns courses ordered by course code, optionally only active ones
func (r *CourseRepository) List(ctx context.Context, activeOnly bool) ([]*models.Course, error) {
	query := r.sb.Select(courseColumns...).From("courses")
	if activeOnly {
		query = query.Where(squirrel.Eq{"status": string(models.CourseStatusActive)})
	}

	sql, args, err := query.OrderBy("course_code").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Bool("activeOnly", activeOnly).Msg("Error listing courses")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Exists reports whether a course with the given ID exists
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE course_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course existence: %w", err)
	}
	return exists, nil
}

// CodeExists reports whether code is used by a course other than excludeID.
// Pass 0 to check against every course.
func (r *CourseRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE course_code = $1 AND course_id <> $2)`,
		code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course code availability: %w", err)
	}
	return exists, nil
}

// Update applies patch to the course and returns the stored row. The
// occupancy counter is never written here.
func (r *CourseRepository) Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	sql, args, err := r.sb.Update("courses").
		Set("course_code", squirrel.Expr("COALESCE(?, course_code)", patch.CourseCode)).
		Set("course_name", squirrel.Expr("COALESCE(?, course_name)", patch.CourseName)).
		Set("description", squirrel.Expr("COALESCE(?, description)", patch.Description)).
		Set("credits", squirrel.Expr("COALESCE(?, credits)", patch.Credits)).
		Set("instructor", squirrel.Expr("COALESCE(?, instructor)", patch.Instructor)).
		Set("max_capacity", squirrel.Expr("COALESCE(?, max_capacity)", patch.MaxCapacity)).
		Set("status", squirrel.Expr("COALESCE(?, status)", status)).
		Where(squirrel.Eq{"course_id": id}).
		Suffix(courseReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case dberrors.IsDuplicateConstraintError(err, "courses_course_code_key"):
			return nil, ErrCourseCodeExists
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error updating course")
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	logger.Info().Int64("courseID", id).Msg("Course updated successfully")
	return course, nil
}

// Delete removes a course; its enrollments go with it through the cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"course_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	logger.Info().Int64("courseID", id).Msg("Course deleted successfully")
	return nil
}

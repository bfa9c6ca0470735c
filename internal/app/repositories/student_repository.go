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

var studentColumns = []string{"student_id", "name", "email", "phone", "registration_date"}

// StudentRepository handles student database operations
type StudentRepository struct {
	db            *pgxpool.Pool
	sb            squirrel.StatementBuilderType
	txMaxAttempts int
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool, txMaxAttempts int) *StudentRepository {
	return &StudentRepository{
		db:            db,
		sb:            statementBuilder(),
		txMaxAttempts: txMaxAttempts,
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.RegistrationDate,
	); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a student and fills its generated id and registration date
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "phone").
		Values(student.Name, student.Email, student.Phone).
		Suffix("RETURNING student_id, registration_date").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.RegistrationDate)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
			logger.Warn().Str("email", student.Email).Msg("Attempted to create student with duplicate email")
			return ErrEmailExists
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Msg("Student created successfully")
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// List returns all students, most recently registered first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("registration_date DESC", "student_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Exists reports whether a student with the given ID exists
func (r *StudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// EmailExists reports whether email is registered to a student other than excludeID.
// Pass 0 to check against every student.
func (r *StudentRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1 AND student_id <> $2)`,
		email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email availability: %w", err)
	}
	return exists, nil
}

// Update applies patch to the student and returns the stored row. Nil patch
// fields keep their column value.
func (r *StudentRepository) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		Set("name", squirrel.Expr("COALESCE(?, name)", patch.Name)).
		Set("email", squirrel.Expr("COALESCE(?, email)", patch.Email)).
		Set("phone", squirrel.Expr("COALESCE(?, phone)", patch.Phone)).
		Where(squirrel.Eq{"student_id": id}).
		Suffix("RETURNING student_id, name, email, phone, registration_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
			return nil, ErrEmailExists
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	logger.Info().Int64("studentID", id).Msg("Student updated successfully")
	return student, nil
}

// Delete removes a student. The cascade removes its enrollments; the counter
// of every course it was enrolled in is decremented in the same transaction.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, r.txMaxAttempts, func(ctx context.Context, tx pgx.Tx) error {
		// Blocks enrollment inserts for this student until the delete commits.
		var lockedID int64
		err := tx.QueryRow(ctx, `SELECT student_id FROM students WHERE student_id = $1 FOR UPDATE`, id).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("error locking student: %w", err)
		}

		courseIDs, err := r.lockEnrolledCourses(ctx, tx, id)
		if err != nil {
			return err
		}

		if len(courseIDs) > 0 {
			// A fresh statement sees enrollments committed while the locks were awaited.
			if _, err := tx.Exec(ctx, `
				UPDATE courses c
				SET current_enrollment = GREATEST(c.current_enrollment - 1, 0)
				FROM enrollments e
				WHERE e.course_id = c.course_id AND e.student_id = $1`, id); err != nil {
				return fmt.Errorf("error decrementing course counters: %w", err)
			}
		}

		sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"student_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete student query: %w", err)
		}
		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
			return fmt.Errorf("error deleting student: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		logger.Info().Int64("studentID", id).Int("coursesReleased", len(courseIDs)).Msg("Student deleted successfully")
		return nil
	})
}

// lockEnrolledCourses locks, in id order, every course the student is enrolled in.
func (r *StudentRepository) lockEnrolledCourses(ctx context.Context, tx pgx.Tx, studentID int64) ([]int64, error) {
	rows, err := tx.Query(ctx, `
		SELECT c.course_id
		FROM courses c
		WHERE c.course_id IN (SELECT e.course_id FROM enrollments e WHERE e.student_id = $1)
		ORDER BY c.course_id
		FOR UPDATE`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error locking enrolled courses: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning course id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

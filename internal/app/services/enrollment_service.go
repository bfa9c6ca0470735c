package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/app/repositories"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

// EnrollmentService defines the enrollment workflow and enrollment reads
type EnrollmentService interface {
	CreateEnrollment(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error)
	DeleteEnrollment(ctx context.Context, id int64) error
	UpdateEnrollment(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.EnrollmentDetail, error)
	GetEnrollment(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ListEnrollments(ctx context.Context) ([]*models.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentDetail, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.EnrollmentDetail, error)
}

type enrollmentServiceImpl struct {
	enrollmentRepo EnrollmentRepository
	studentRepo    StudentRepository
	courseRepo     CourseRepository
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	enrollmentRepo EnrollmentRepository,
	studentRepo StudentRepository,
	courseRepo CourseRepository,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

// CreateEnrollment enrolls a student in a course. The checks and the
// insert-plus-increment run in one transaction holding the course row lock,
// so concurrent requests for the same course are serialized.
func (s *enrollmentServiceImpl) CreateEnrollment(ctx context.Context, studentID, courseID int64) (*models.EnrollmentDetail, error) {
	var created models.Enrollment
	var student models.Student
	var course models.Course

	err := s.enrollmentRepo.WithinTx(ctx, func(ctx context.Context, tx repositories.EnrollmentTx) error {
		lockedStudent, err := tx.LockStudent(ctx, studentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return studentNotFound(studentID)
			}
			return err
		}

		locked, err := tx.LockCourse(ctx, courseID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return courseNotFound(courseID)
			}
			return err
		}
		if !locked.IsActive() {
			return apperrors.NewInvalidStateError(msgCourseNotActive)
		}
		if locked.IsFull() {
			return apperrors.NewCapacityExceededError(msgCourseFull)
		}

		enrolled, err := tx.EnrollmentExists(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			return apperrors.NewDuplicateError(msgAlreadyEnrolled)
		}

		enrollment := models.Enrollment{
			StudentID: studentID,
			CourseID:  courseID,
			Status:    models.EnrollmentStatusEnrolled,
		}
		if err := tx.InsertEnrollment(ctx, &enrollment); err != nil {
			switch {
			case errors.Is(err, repositories.ErrAlreadyEnrolled):
				return apperrors.NewDuplicateError(msgAlreadyEnrolled)
			case errors.Is(err, repositories.ErrStudentGone):
				return studentNotFound(studentID)
			}
			return err
		}

		if err := tx.IncrementCourseEnrollment(ctx, courseID); err != nil {
			if errors.Is(err, repositories.ErrCourseFull) {
				return apperrors.NewCapacityExceededError(msgCourseFull)
			}
			return err
		}

		created = enrollment
		student = *lockedStudent
		course = *locked
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			s.logger.Debug().Int64("studentID", studentID).Int64("courseID", courseID).
				Str("reason", err.Error()).Msg("Enrollment rejected")
			return nil, err
		}
		s.logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Enrollment failed")
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info().Int64("enrollmentID", created.ID).Int64("studentID", studentID).
		Int64("courseID", courseID).Msg("Enrollment created")

	detail, err := s.enrollmentRepo.GetByID(ctx, created.ID)
	if err != nil {
		// Removed again before it could be read back; report what was committed.
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.EnrollmentDetail{
				Enrollment:   created,
				StudentName:  student.Name,
				StudentEmail: student.Email,
				StudentPhone: student.Phone,
				CourseCode:   course.CourseCode,
				CourseName:   course.CourseName,
				Credits:      course.Credits,
				Instructor:   course.Instructor,
			}, nil
		}
		return nil, fmt.Errorf("failed to read created enrollment: %w", err)
	}
	return detail, nil
}

// DeleteEnrollment removes an enrollment and releases its seat in one transaction.
func (s *enrollmentServiceImpl) DeleteEnrollment(ctx context.Context, id int64) error {
	err := s.enrollmentRepo.WithinTx(ctx, func(ctx context.Context, tx repositories.EnrollmentTx) error {
		enrollment, err := tx.FindEnrollment(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return enrollmentNotFound(id)
			}
			return err
		}

		if _, err := tx.LockCourse(ctx, enrollment.CourseID); err != nil {
			// The course, and with it the enrollment, was deleted meanwhile.
			if errors.Is(err, repositories.ErrNotFound) {
				return enrollmentNotFound(id)
			}
			return err
		}

		if err := tx.DeleteEnrollment(ctx, id, enrollment.CourseID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return enrollmentNotFound(id)
			}
			return err
		}

		return tx.DecrementCourseEnrollment(ctx, enrollment.CourseID)
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		s.logger.Error().Err(err).Int64("enrollmentID", id).Msg("Enrollment delete failed")
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	s.logger.Info().Int64("enrollmentID", id).Msg("Enrollment deleted")
	return nil
}

// UpdateEnrollment patches grade and status. The course counter is unaffected.
func (s *enrollmentServiceImpl) UpdateEnrollment(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.EnrollmentDetail, error) {
	if _, err := s.GetEnrollment(ctx, id); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewBadRequestError(msgNoFieldsToUpdate)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid enrollment status %q", *patch.Status))
	}

	if _, err := s.enrollmentRepo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, enrollmentNotFound(id)
		}
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	return s.GetEnrollment(ctx, id)
}

func (s *enrollmentServiceImpl) GetEnrollment(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, enrollmentNotFound(id)
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return detail, nil
}

func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context) ([]*models.EnrollmentDetail, error) {
	enrollments, err := s.enrollmentRepo.List(ctx, models.EnrollmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByStudent returns NOT_FOUND for an unknown student and an empty list
// for a known student without enrollments.
func (s *enrollmentServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentDetail, error) {
	exists, err := s.studentRepo.Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return nil, studentNotFound(studentID)
	}

	enrollments, err := s.enrollmentRepo.List(ctx, models.EnrollmentFilter{StudentID: studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list student enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByCourse returns NOT_FOUND for an unknown course and an empty list
// for a known course without enrollments.
func (s *enrollmentServiceImpl) ListByCourse(ctx context.Context, courseID int64) ([]*models.EnrollmentDetail, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, courseNotFound(courseID)
	}

	enrollments, err := s.enrollmentRepo.List(ctx, models.EnrollmentFilter{CourseID: courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to list course enrollments: %w", err)
	}
	return enrollments, nil
}

// isDomainError reports whether err is a caller-facing rejection rather than
// an infrastructure failure.
func isDomainError(err error) bool {
	return apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrInvalidState,
		apperrors.ErrCapacityExceeded,
		apperrors.ErrBadRequest,
		apperrors.ErrConflict,
	)
}

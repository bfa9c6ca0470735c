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

// StudentService defines student operations
type StudentService interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, student *models.Student) error
	UpdateStudent(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	studentRepo StudentRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo StudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, studentNotFound(id)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// CreateStudent registers a student; the email must not be in use.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) error {
	taken, err := s.studentRepo.EmailExists(ctx, student.Email, 0)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return apperrors.NewDuplicateError(msgEmailRegistered)
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			return apperrors.NewDuplicateError(msgEmailRegistered)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// UpdateStudent applies a partial update. Absent fields keep their value.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	if _, err := s.GetStudent(ctx, id); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewBadRequestError(msgNoFieldsToUpdate)
	}

	if patch.Email != nil {
		taken, err := s.studentRepo.EmailExists(ctx, *patch.Email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, apperrors.NewDuplicateError(msgEmailRegistered)
		}
	}

	student, err := s.studentRepo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, studentNotFound(id)
		case errors.Is(err, repositories.ErrEmailExists):
			return nil, apperrors.NewDuplicateError(msgEmailRegistered)
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

// DeleteStudent removes a student together with its enrollments.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return studentNotFound(id)
		}
		if isDomainError(err) {
			return err
		}
		s.logger.Error().Err(err).Int64("studentID", id).Msg("Student delete failed")
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

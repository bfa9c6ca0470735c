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

// CourseService defines course catalogue operations
type CourseService interface {
	ListCourses(ctx context.Context, activeOnly bool) ([]*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	courseRepo CourseRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseRepository, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *courseServiceImpl) ListCourses(ctx context.Context, activeOnly bool) ([]*models.Course, error) {
	courses, err := s.courseRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, courseNotFound(id)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// CreateCourse adds a course with a fresh occupancy counter.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.Status == "" {
		course.Status = models.CourseStatusActive
	}
	if !course.Status.Valid() {
		return apperrors.NewBadRequestError(fmt.Sprintf("Invalid course status %q", course.Status))
	}
	if course.MaxCapacity < 0 {
		return apperrors.NewBadRequestError("max_capacity must not be negative")
	}
	course.CurrentEnrollment = 0

	taken, err := s.courseRepo.CodeExists(ctx, course.CourseCode, 0)
	if err != nil {
		return fmt.Errorf("failed to check course code: %w", err)
	}
	if taken {
		return apperrors.NewDuplicateError(msgCourseCodeExists)
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrCourseCodeExists) {
			return apperrors.NewDuplicateError(msgCourseCodeExists)
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// UpdateCourse applies a partial update. The occupancy counter cannot be patched.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewBadRequestError(msgNoFieldsToUpdate)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid course status %q", *patch.Status))
	}

	if patch.CourseCode != nil {
		taken, err := s.courseRepo.CodeExists(ctx, *patch.CourseCode, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check course code: %w", err)
		}
		if taken {
			return nil, apperrors.NewDuplicateError(msgCourseCodeExists)
		}
	}

	course, err := s.courseRepo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, courseNotFound(id)
		case errors.Is(err, repositories.ErrCourseCodeExists):
			return nil, apperrors.NewDuplicateError(msgCourseCodeExists)
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

// DeleteCourse removes a course; the cascade removes its enrollments.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return courseNotFound(id)
		}
		s.logger.Error().Err(err).Int64("courseID", id).Msg("Course delete failed")
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

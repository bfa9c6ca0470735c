package services

import (
	"context"

	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/app/repositories"
)

// Services defined in this package:
// - StudentService: student intake, lookup, patch and removal
// - CourseService: course catalogue management
// - EnrollmentService: the enrollment workflow and enrollment reads
// - AuthService: admin login and session validation
// - HealthService: datastore reachability

// StudentRepository is the student storage used by the services
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Exists(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// CourseRepository is the course storage used by the services
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Course, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// EnrollmentRepository is the enrollment storage used by the services
type EnrollmentRepository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.EnrollmentTx) error) error
	GetByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error)
	Update(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.Enrollment, error)
}

// AdminRepository is the admin account storage used by the services
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
}

var (
	_ StudentRepository    = (*repositories.StudentRepository)(nil)
	_ CourseRepository     = (*repositories.CourseRepository)(nil)
	_ EnrollmentRepository = (*repositories.EnrollmentRepository)(nil)
	_ AdminRepository      = (*repositories.AdminRepository)(nil)
)

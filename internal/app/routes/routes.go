package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/edutrack/internal/app/controllers"
	"github.com/yigit/edutrack/internal/config"
	"github.com/yigit/edutrack/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Student    *controllers.StudentController
	Course     *controllers.CourseController
	Enrollment *controllers.EnrollmentController
	Auth       *controllers.AuthController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes. Only the groups selected by
// server.service are mounted; health and service info are always present.
func SetupRouter(
	router *gin.Engine,
	cfg *config.Config,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/", ctrl.Health.Info)
	router.GET("/health", ctrl.Health.Health)

	if cfg.Serves(config.ServiceStudents) {
		students := router.Group("/students")
		{
			students.GET("", ctrl.Student.GetStudents)
			students.POST("", ctrl.Student.CreateStudent)
			students.GET("/:id", ctrl.Student.GetStudent)
			students.PUT("/:id", ctrl.Student.UpdateStudent)
			students.DELETE("/:id", ctrl.Student.DeleteStudent)
			students.GET("/:id/enrollments", ctrl.Student.GetStudentEnrollments)
		}
	}

	if cfg.Serves(config.ServiceCourses) {
		admin := router.Group("/admin")
		{
			admin.POST("/login", ctrl.Auth.Login)
			admin.POST("/logout", authMiddleware.AdminAuth(), ctrl.Auth.Logout)
		}

		courses := router.Group("/courses")
		{
			courses.GET("", ctrl.Course.GetCourses)
			courses.GET("/:id", ctrl.Course.GetCourse)

			// Catalogue changes require an admin session
			coursesAdmin := courses.Group("")
			coursesAdmin.Use(authMiddleware.AdminAuth())
			{
				coursesAdmin.POST("", ctrl.Course.CreateCourse)
				coursesAdmin.PUT("/:id", ctrl.Course.UpdateCourse)
				coursesAdmin.DELETE("/:id", ctrl.Course.DeleteCourse)
			}
		}
	}

	if cfg.Serves(config.ServiceEnrollments) {
		enrollments := router.Group("/enrollments")
		{
			enrollments.GET("", ctrl.Enrollment.GetEnrollments)
			enrollments.POST("", ctrl.Enrollment.CreateEnrollment)
			enrollments.GET("/student/:id", ctrl.Enrollment.GetStudentEnrollments)
			enrollments.GET("/course/:id", ctrl.Enrollment.GetCourseEnrollments)
			enrollments.GET("/:id", ctrl.Enrollment.GetEnrollment)
			enrollments.PUT("/:id", ctrl.Enrollment.UpdateEnrollment)
			enrollments.DELETE("/:id", ctrl.Enrollment.DeleteEnrollment)
		}
	}
}

// Endpoints lists the route groups advertised at the root path.
func Endpoints(cfg *config.Config) map[string]string {
	endpoints := map[string]string{
		"health": "/health",
		"docs":   "/swagger/index.html",
	}
	if cfg.Serves(config.ServiceStudents) {
		endpoints["students"] = "/students"
	}
	if cfg.Serves(config.ServiceCourses) {
		endpoints["courses"] = "/courses"
		endpoints["admin_login"] = "/admin/login"
	}
	if cfg.Serves(config.ServiceEnrollments) {
		endpoints["enrollments"] = "/enrollments"
	}
	return endpoints
}

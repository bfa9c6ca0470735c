package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/edutrack/internal/app/controllers"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/config"
	"github.com/yigit/edutrack/internal/middleware"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okChecker struct{}

func (okChecker) Check(ctx context.Context) error { return nil }

type rejectAll struct{}

func (rejectAll) Validate(ctx context.Context, token string) (*models.Principal, error) {
	return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid or expired token")
}

func newRouter(service string) *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.Service = service

	router := gin.New()
	SetupRouter(router, cfg, Controllers{
		Student:    controllers.NewStudentController(nil, nil),
		Course:     controllers.NewCourseController(nil, nil),
		Enrollment: controllers.NewEnrollmentController(nil),
		Auth:       controllers.NewAuthController(nil),
		Health:     controllers.NewHealthController(okChecker{}, "test", Endpoints(cfg)),
	}, middleware.NewAuthMiddleware(rejectAll{}))
	return router
}

func status(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestServiceSelectorMountsOnlyItsGroup(t *testing.T) {
	r := newRouter(config.ServiceCourses)

	assert.Equal(t, http.StatusOK, status(r, http.MethodGet, "/health"))
	assert.Equal(t, http.StatusNotFound, status(r, http.MethodGet, "/students"))
	assert.Equal(t, http.StatusNotFound, status(r, http.MethodGet, "/enrollments"))
	assert.Equal(t, http.StatusUnauthorized, status(r, http.MethodPost, "/courses"))
	assert.Equal(t, http.StatusUnauthorized, status(r, http.MethodDelete, "/courses/1"))
	assert.Equal(t, http.StatusUnauthorized, status(r, http.MethodPost, "/admin/logout"))
}

func TestEndpointsFollowSelector(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Service = config.ServiceAll
	all := Endpoints(cfg)
	assert.Contains(t, all, "students")
	assert.Contains(t, all, "courses")
	assert.Contains(t, all, "enrollments")

	cfg.Server.Service = config.ServiceEnrollments
	only := Endpoints(cfg)
	assert.Contains(t, only, "enrollments")
	assert.NotContains(t, only, "students")
	assert.NotContains(t, only, "admin_login")
}

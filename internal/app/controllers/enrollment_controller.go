package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edutrack/internal/app/models/dto"
	"github.com/yigit/edutrack/internal/app/services"
	"github.com/yigit/edutrack/internal/middleware"
)

// EnrollmentController handles enrollment endpoints
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// GetEnrollments lists all enrollments
// @Summary List enrollments
// @Description Lists every enrollment with student and course details, newest first
// @Tags enrollments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.EnrollmentDetail}
// @Router /enrollments [get]
func (c *EnrollmentController) GetEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ListEnrollments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments, ""))
}

// GetEnrollment retrieves an enrollment
// @Summary Get enrollment by ID
// @Tags enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentDetail}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "enrollment")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetEnrollment(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment, ""))
}

// CreateEnrollment enrolls a student in a course
// @Summary Enroll student
// @Description Enrolls a student in an active course with free capacity
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body dto.CreateEnrollmentRequest true "Student and course"
// @Success 201 {object} dto.APIResponse{data=models.EnrollmentDetail} "Enrollment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Course inactive, course full or already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update conflict"
// @Router /enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollment, err := c.enrollmentService.CreateEnrollment(ctx.Request.Context(), req.StudentID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment, "Enrollment created successfully"))
}

// UpdateEnrollment sets grade and/or status
// @Summary Update enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body dto.UpdateEnrollmentRequest true "Grade and status"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentDetail} "Enrollment updated successfully"
// @Failure 400 {object} dto.ErrorResponse "No fields to update"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [put]
func (c *EnrollmentController) UpdateEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "enrollment")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollment, err := c.enrollmentService.UpdateEnrollment(ctx.Request.Context(), id, req.ToPatch())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment, "Enrollment updated successfully"))
}

// DeleteEnrollment removes an enrollment and frees its seat
// @Summary Delete enrollment
// @Tags enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update conflict"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "enrollment")
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteEnrollment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, fmt.Sprintf("Enrollment %d deleted successfully", id)))
}

// GetStudentEnrollments lists enrollments of one student
// @Summary List enrollments by student
// @Tags enrollments
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.EnrollmentDetail}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /enrollments/student/{id} [get]
func (c *EnrollmentController) GetStudentEnrollments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListByStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments, ""))
}

// GetCourseEnrollments lists enrollments of one course
// @Summary List enrollments by course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.EnrollmentDetail}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /enrollments/course/{id} [get]
func (c *EnrollmentController) GetCourseEnrollments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListByCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments, ""))
}

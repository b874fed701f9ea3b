package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/services"
	"github.com/yigit/cvportal/internal/middleware"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
)

// StudentController serves the public student routes
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// List returns students matching the query, best grade first
// @Summary List students
// @Tags students
// @Produce json
// @Param career query string false "Exact career"
// @Param minGPA query number false "Minimum grade"
// @Param hasExperience query bool false "Only students with experience"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	var query dto.StudentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	students, err := c.studentService.List(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// Get returns one student
// @Summary Get a student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	student, err := c.studentService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// UpdatePhoto stores an uploaded photo for the student
// @Summary Upload a student photo
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param photo formData file true "JPEG, PNG or PDF up to 5MB"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or disallowed file"
// @Router /students/{id}/photo [put]
func (c *StudentController) UpdatePhoto(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid multipart form"))
		return
	}

	resp, err := c.studentService.UpdatePhoto(ctx.Request.Context(), ctx.Param("id"), fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}

// Update applies a partial student update
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Student updated successfully"))
}

// AddCertification appends a certification with an optional file
// @Summary Add a certification
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param name formData string true "Certification name"
// @Param institution formData string true "Issuing institution"
// @Param date formData string true "YYYY-MM-DD"
// @Param file formData file false "JPEG, PNG or PDF up to 5MB"
// @Success 200 {object} dto.APIResponse{data=[]models.Certification}
// @Router /students/{id}/certifications [post]
func (c *StudentController) AddCertification(ctx *gin.Context) {
	var form dto.AddCertificationForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid multipart form"))
		return
	}

	certs, err := c.studentService.AddCertification(ctx.Request.Context(), ctx.Param("id"), &form, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(certs, "Certification added successfully"))
}

// AddExperience appends an experience entry
// @Summary Add work experience
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body dto.ExperienceRequest true "Experience entry"
// @Success 200 {object} dto.APIResponse{data=[]models.Experience}
// @Router /students/{id}/experience [post]
func (c *StudentController) AddExperience(ctx *gin.Context) {
	var req dto.ExperienceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	experience, err := c.studentService.AddExperience(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(experience, "Experience added successfully"))
}

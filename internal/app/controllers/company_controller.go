package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/services"
	"github.com/yigit/cvportal/internal/middleware"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
)

// CompanyController serves the authenticated company routes
type CompanyController struct {
	companyService *services.CompanyService
	logger         zerolog.Logger
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService *services.CompanyService, logger zerolog.Logger) *CompanyController {
	return &CompanyController{
		companyService: companyService,
		logger:         logger,
	}
}

// GetProfile returns the authenticated company's profile
// @Summary Get own profile
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CompanyProfileResponse}
// @Router /companies/profile [get]
func (c *CompanyController) GetProfile(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	profile, err := c.companyService.GetProfile(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// UpdateProfile applies a partial profile update
// @Summary Update own profile
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateCompanyProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or name/email already in use"
// @Router /companies/profile [put]
func (c *CompanyController) UpdateProfile(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.UpdateCompanyProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	profile, err := c.companyService.UpdateProfile(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Profile updated successfully"))
}

// SearchStudents filters and sorts students
// @Summary Search students
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param career query string false "Exact career"
// @Param minGPA query number false "Minimum grade"
// @Param hasExperience query bool false "Only students with experience"
// @Param certifications query string false "Comma separated certification names"
// @Param yearOfStudy query int false "Year of study"
// @Param sortBy query string false "gpa, experience or certifications"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /companies/search/students [get]
func (c *CompanyController) SearchStudents(ctx *gin.Context) {
	var query dto.StudentSearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	students, err := c.companyService.SearchStudents(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// GetStudent returns one student
// @Summary Get a student
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /companies/students/{id} [get]
func (c *CompanyController) GetStudent(ctx *gin.Context) {
	student, err := c.companyService.GetStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// ListCareers returns the distinct careers
// @Summary List careers
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /companies/careers [get]
func (c *CompanyController) ListCareers(ctx *gin.Context) {
	careers, err := c.companyService.ListCareers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(careers, ""))
}

// ListCertificationNames returns the distinct certification names
// @Summary List certification names
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /companies/certifications [get]
func (c *CompanyController) ListCertificationNames(ctx *gin.Context) {
	names, err := c.companyService.ListCertificationNames(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(names, ""))
}

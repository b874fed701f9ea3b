package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/services"
	"github.com/yigit/cvportal/internal/middleware"
)

// CVController serves CV downloads and CV section updates
type CVController struct {
	cvService *services.CVService
	logger    zerolog.Logger
}

// NewCVController creates a new CVController
func NewCVController(cvService *services.CVService, logger zerolog.Logger) *CVController {
	return &CVController{
		cvService: cvService,
		logger:    logger,
	}
}

// Generate streams the student's CV as a PDF attachment
// @Summary Download a CV
// @Tags cv
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /cv/generate/{studentId} [get]
func (c *CVController) Generate(ctx *gin.Context) {
	cv, err := c.cvService.Generate(ctx.Request.Context(), ctx.Param("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer c.cvService.Cleanup(cv.Path)

	ctx.FileAttachment(cv.Path, cv.FileName)
}

// UpdateSections replaces the certification and/or experience lists
// @Summary Update CV sections
// @Tags cv
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param request body dto.UpdateCVRequest true "Sections to replace"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /cv/update/{studentId} [put]
func (c *CVController) UpdateSections(ctx *gin.Context) {
	var req dto.UpdateCVRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, dto.NewBindingError(err))
		return
	}

	student, err := c.cvService.UpdateSections(ctx.Request.Context(), ctx.Param("studentId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "CV updated successfully"))
}

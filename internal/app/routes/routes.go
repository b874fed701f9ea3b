package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/cvportal/internal/app/controllers"
	"github.com/yigit/cvportal/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Company *controllers.CompanyController
	Student *controllers.StudentController
	CV      *controllers.CVController
}

// SetupRouter configures all application routes under basePath ("" mounts them at the root)
func SetupRouter(router *gin.Engine, basePath string, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group(basePath)

	// --- Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.GET("/verify/:token", ctrl.Auth.VerifyEmail)
		auth.POST("/forgot-password", ctrl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctrl.Auth.ResetPassword)

		twoFactor := auth.Group("")
		twoFactor.Use(authMiddleware.JWTAuth())
		twoFactor.POST("/setup-2fa", ctrl.Auth.Setup2FA)
		twoFactor.POST("/verify-2fa", ctrl.Auth.Verify2FA)
	}

	// --- Company routes (bearer auth) ---
	companies := api.Group("/companies")
	companies.Use(authMiddleware.JWTAuth())
	{
		companies.GET("/profile", ctrl.Company.GetProfile)
		companies.PUT("/profile", ctrl.Company.UpdateProfile)
		companies.GET("/search/students", ctrl.Company.SearchStudents)
		companies.GET("/students/:id", ctrl.Company.GetStudent)
		companies.GET("/careers", ctrl.Company.ListCareers)
		companies.GET("/certifications", ctrl.Company.ListCertificationNames)
	}

	// --- Public student routes ---
	students := api.Group("/students")
	{
		students.GET("", ctrl.Student.List)
		students.GET("/:id", ctrl.Student.Get)
		students.PUT("/:id/photo", ctrl.Student.UpdatePhoto)
		students.PUT("/:id", ctrl.Student.Update)
		students.POST("/:id/certifications", ctrl.Student.AddCertification)
		students.POST("/:id/experience", ctrl.Student.AddExperience)
	}

	// --- CV routes ---
	cv := api.Group("/cv")
	{
		cv.GET("/generate/:studentId", ctrl.CV.Generate)
		cv.PUT("/update/:studentId", ctrl.CV.UpdateSections)
	}
}

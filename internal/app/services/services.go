package services

// Services groups the business services handed to the controllers
type Services struct {
	AuthService    *AuthService
	CompanyService *CompanyService
	StudentService *StudentService
	CVService      *CVService
}

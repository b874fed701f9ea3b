package repositories

// Repositories holds all the repository instances
type Repositories struct {
	CompanyRepository *CompanyRepository
	StudentRepository *StudentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		CompanyRepository: NewCompanyRepository(db),
		StudentRepository: NewStudentRepository(db),
	}
}

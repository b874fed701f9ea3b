// Package testhelpers provides in-memory stand-ins for the persistence and mail layers.
package testhelpers

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
)

// CompanyRepo is an in-memory ICompanyRepository enforcing name and email uniqueness
type CompanyRepo struct {
	mu        sync.Mutex
	companies map[uuid.UUID]models.Company
}

var _ repositories.ICompanyRepository = (*CompanyRepo)(nil)

// NewCompanyRepo creates an empty CompanyRepo
func NewCompanyRepo() *CompanyRepo {
	return &CompanyRepo{companies: map[uuid.UUID]models.Company{}}
}

func (r *CompanyRepo) Create(_ context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(company.ID, company.Email, company.Name) {
		return apperrors.NewConflictError("Company already exists")
	}
	if err := company.BeforeSave(); err != nil {
		return err
	}
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now().UTC()
	}
	r.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	return r.find(func(c models.Company) bool { return c.ID == id })
}

func (r *CompanyRepo) GetByEmail(_ context.Context, email string) (*models.Company, error) {
	return r.find(func(c models.Company) bool { return c.Email == email })
}

func (r *CompanyRepo) GetByVerificationToken(_ context.Context, token string) (*models.Company, error) {
	return r.find(func(c models.Company) bool { return c.VerificationToken != nil && *c.VerificationToken == token })
}

func (r *CompanyRepo) GetByResetToken(_ context.Context, token string) (*models.Company, error) {
	return r.find(func(c models.Company) bool { return c.ResetPasswordToken != nil && *c.ResetPasswordToken == token })
}

func (r *CompanyRepo) ExistsByEmailOrName(_ context.Context, email, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taken(uuid.Nil, email, name), nil
}

func (r *CompanyRepo) Update(_ context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.companies[company.ID]; !ok {
		return apperrors.ErrCompanyNotFound
	}
	if r.taken(company.ID, company.Email, company.Name) {
		return apperrors.NewConflictError("Company name or email already in use")
	}
	if err := company.BeforeSave(); err != nil {
		return err
	}
	r.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.companies[id]
	if !ok {
		return apperrors.ErrCompanyNotFound
	}
	c.LastLogin = &at
	r.companies[id] = c
	return nil
}

// Count returns the number of stored companies
func (r *CompanyRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.companies)
}

// taken reports whether another company than self uses email or name. Callers hold mu.
func (r *CompanyRepo) taken(self uuid.UUID, email, name string) bool {
	for id, c := range r.companies {
		if id != self && (c.Email == email || c.Name == name) {
			return true
		}
	}
	return false
}

func (r *CompanyRepo) find(match func(models.Company) bool) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if match(c) {
			found := c
			return &found, nil
		}
	}
	return nil, apperrors.ErrCompanyNotFound
}

// StudentRepo is an in-memory IStudentRepository with the same filter and sort semantics
// as the SQL implementation.
type StudentRepo struct {
	mu       sync.Mutex
	students map[uuid.UUID]models.Student
	order    []uuid.UUID

	// Err, when set, is returned by every call
	Err error
}

var _ repositories.IStudentRepository = (*StudentRepo)(nil)

// NewStudentRepo creates an empty StudentRepo
func NewStudentRepo() *StudentRepo {
	return &StudentRepo{students: map[uuid.UUID]models.Student{}}
}

func (r *StudentRepo) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	for _, s := range r.students {
		if s.IdentificationNumber == student.IdentificationNumber {
			return apperrors.NewConflictError("Identification number already exists")
		}
	}
	student.BeforeSave()
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	r.students[student.ID] = clone(*student)
	r.order = append(r.order, student.ID)
	return nil
}

func (r *StudentRepo) GetByID(_ context.Context, id string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	studentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	s, ok := r.students[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	out := clone(s)
	return &out, nil
}

func (r *StudentRepo) Find(_ context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	out := []*models.Student{}
	for _, id := range r.order {
		s := clone(r.students[id])
		if matches(&s, filter) {
			out = append(out, &s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch filter.SortBy {
		case models.SortByExperience:
			return len(out[i].Experience) > len(out[j].Experience)
		case models.SortByCertifications:
			return len(out[i].Certifications) > len(out[j].Certifications)
		default:
			gi, oki := out[i].HighestGrade()
			gj, okj := out[j].HighestGrade()
			if oki != okj {
				return oki
			}
			return gi > gj
		}
	})
	return out, nil
}

func matches(s *models.Student, f repositories.StudentFilter) bool {
	if f.Career != nil && s.Career != *f.Career {
		return false
	}
	if f.MinGrade != nil {
		best, ok := s.HighestGrade()
		if !ok || best < *f.MinGrade {
			return false
		}
	}
	if f.HasExperience && len(s.Experience) == 0 {
		return false
	}
	if len(f.Certifications) > 0 {
		held := false
		for _, c := range s.Certifications {
			for _, name := range f.Certifications {
				if c.Name == name {
					held = true
				}
			}
		}
		if !held {
			return false
		}
	}
	if f.YearOfStudy != nil && s.YearOfStudy != *f.YearOfStudy {
		return false
	}
	return true
}

func (r *StudentRepo) Update(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	student.BeforeSave()
	r.students[student.ID] = clone(*student)
	return nil
}

func (r *StudentRepo) AppendCertification(_ context.Context, id uuid.UUID, cert models.Certification) ([]models.Certification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	s, ok := r.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s.Certifications = append(s.Certifications, cert)
	s.BeforeSave()
	r.students[id] = clone(s)
	return clone(s).Certifications, nil
}

func (r *StudentRepo) AppendExperience(_ context.Context, id uuid.UUID, exp models.Experience) ([]models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	s, ok := r.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s.Experience = append(s.Experience, exp)
	s.BeforeSave()
	r.students[id] = clone(s)
	return clone(s).Experience, nil
}

func (r *StudentRepo) DistinctCareers(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	set := map[string]struct{}{}
	for _, s := range r.students {
		if s.Career != "" {
			set[s.Career] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (r *StudentRepo) DistinctCertificationNames(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	set := map[string]struct{}{}
	for _, s := range r.students {
		for _, c := range s.Certifications {
			set[c.Name] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// MustAdd stores student and returns its id, panicking on conflicts
func (r *StudentRepo) MustAdd(student models.Student) uuid.UUID {
	if err := r.Create(context.Background(), &student); err != nil {
		panic(err)
	}
	return student.ID
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// clone deep-copies a student the way a round trip through JSONB would
func clone(s models.Student) models.Student {
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	var out models.Student
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/dberrors"
)

type CompanyRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *CompanyRepository
	ctx  context.Context
}

func (s *CompanyRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(s.T(), err)
	s.mock = mock
	s.repo = NewCompanyRepository(mock)
	s.ctx = context.Background()
}

func (s *CompanyRepoTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestCompanyRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyRepoTestSuite))
}

func (s *CompanyRepoTestSuite) TestCreate_HashesPasswordAndAssignsID() {
	s.mock.ExpectExec(`INSERT INTO companies \(id,name,email,password`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	company := &models.Company{Name: "Acme", Email: "a@acme.com"}
	company.SetPassword("Secur3!ty")

	require.NoError(s.T(), s.repo.Create(s.ctx, company))
	assert.NotEqual(s.T(), uuid.Nil, company.ID)
	assert.NotEqual(s.T(), "Secur3!ty", company.Password)
	assert.True(s.T(), company.ComparePassword("Secur3!ty"))
	assert.False(s.T(), company.CreatedAt.IsZero())
}

func (s *CompanyRepoTestSuite) TestCreate_UniqueViolationIsConflict() {
	s.mock.ExpectExec(`INSERT INTO companies`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: dberrors.ConstraintCompanyName})

	company := &models.Company{Name: "Acme", Email: "b@acme.com"}
	company.SetPassword("Secur3!ty")

	err := s.repo.Create(s.ctx, company)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func (s *CompanyRepoTestSuite) TestExistsByEmailOrName() {
	s.mock.ExpectQuery(`SELECT EXISTS \(.*FROM companies WHERE \(email = \$1 OR name = \$2\)`).
		WithArgs("a@acme.com", "Acme").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.repo.ExistsByEmailOrName(s.ctx, "a@acme.com", "Acme")
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)
}

func (s *CompanyRepoTestSuite) TestGetByEmail() {
	id := uuid.New()
	created := time.Now().UTC()
	var noString *string
	var noTime *time.Time

	s.mock.ExpectQuery(`SELECT .* FROM companies WHERE email = \$1 LIMIT 1`).
		WithArgs("a@acme.com").
		WillReturnRows(pgxmock.NewRows(companyColumns).AddRow(
			id, "Acme", "a@acme.com", "$2a$10$hash", noString, false, true, noString, noString, noTime, noTime, created,
		))

	company, err := s.repo.GetByEmail(s.ctx, "a@acme.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, company.ID)
	assert.True(s.T(), company.IsVerified)
	assert.False(s.T(), company.PasswordChanged())
}

func (s *CompanyRepoTestSuite) TestGetByVerificationToken_NotFound() {
	s.mock.ExpectQuery(`FROM companies WHERE verification_token = \$1`).
		WithArgs("tok").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.repo.GetByVerificationToken(s.ctx, "tok")
	assert.ErrorIs(s.T(), err, apperrors.ErrCompanyNotFound)
}

func (s *CompanyRepoTestSuite) TestUpdate_DoesNotRehashCleanPassword() {
	s.mock.ExpectExec(`UPDATE companies SET name = \$1, email = \$2, password = \$3`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	company := &models.Company{ID: uuid.New(), Name: "Acme", Email: "a@acme.com", Password: "$2a$10$stored"}
	require.NoError(s.T(), s.repo.Update(s.ctx, company))
	assert.Equal(s.T(), "$2a$10$stored", company.Password)
}

func (s *CompanyRepoTestSuite) TestUpdate_Conflict() {
	s.mock.ExpectExec(`UPDATE companies`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: dberrors.ConstraintCompanyEmail})

	err := s.repo.Update(s.ctx, &models.Company{ID: uuid.New(), Name: "Acme", Email: "taken@acme.com"})
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func (s *CompanyRepoTestSuite) TestUpdateLastLogin_Missing() {
	id := uuid.New()
	s.mock.ExpectExec(`UPDATE companies SET last_login = \$1 WHERE id = \$2`).
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.repo.UpdateLastLogin(s.ctx, id, time.Now())
	assert.ErrorIs(s.T(), err, apperrors.ErrCompanyNotFound)
}

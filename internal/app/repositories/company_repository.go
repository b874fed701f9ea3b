package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/dberrors"
	"github.com/yigit/cvportal/internal/pkg/logger"
)

// ICompanyRepository defines the persistence operations on company accounts
type ICompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByEmail(ctx context.Context, email string) (*models.Company, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.Company, error)
	GetByResetToken(ctx context.Context, token string) (*models.Company, error)
	ExistsByEmailOrName(ctx context.Context, email, name string) (bool, error)
	Update(ctx context.Context, company *models.Company) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

var companyColumns = []string{
	"id", "name", "email", "password", "two_factor_secret", "two_factor_enabled",
	"is_verified", "verification_token", "reset_password_token", "reset_password_expires",
	"last_login", "created_at",
}

// CompanyRepository handles company database operations
type CompanyRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new company, hashing its password through the save hook
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := company.BeforeSave(); err != nil {
		return err
	}
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now().UTC()
	}

	sql, args, err := r.sb.Insert("companies").
		Columns(companyColumns...).
		Values(
			company.ID, company.Name, company.Email, company.Password, company.TwoFactorSecret,
			company.TwoFactorEnabled, company.IsVerified, company.VerificationToken,
			company.ResetPasswordToken, company.ResetPasswordExpires, company.LastLogin, company.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create company query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("Company already exists")
		}
		logger.Error().Err(err).Str("email", company.Email).Msg("Error creating company")
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

// GetByID retrieves a company by its identifier
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a company by its email address
func (r *CompanyRepository) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByVerificationToken retrieves the company a pending verification token belongs to
func (r *CompanyRepository) GetByVerificationToken(ctx context.Context, token string) (*models.Company, error) {
	return r.getOne(ctx, squirrel.Eq{"verification_token": token})
}

// GetByResetToken retrieves the company a password reset token belongs to
func (r *CompanyRepository) GetByResetToken(ctx context.Context, token string) (*models.Company, error) {
	return r.getOne(ctx, squirrel.Eq{"reset_password_token": token})
}

func (r *CompanyRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Company, error) {
	sql, args, err := r.sb.Select(companyColumns...).
		From("companies").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get company query: %w", err)
	}

	company := &models.Company{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&company.ID, &company.Name, &company.Email, &company.Password, &company.TwoFactorSecret,
		&company.TwoFactorEnabled, &company.IsVerified, &company.VerificationToken,
		&company.ResetPasswordToken, &company.ResetPasswordExpires, &company.LastLogin, &company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		logger.Error().Err(err).Msg("Error scanning company row")
		return nil, fmt.Errorf("error getting company: %w", err)
	}
	return company, nil
}

// ExistsByEmailOrName reports whether any company already uses email or name
func (r *CompanyRepository) ExistsByEmailOrName(ctx context.Context, email, name string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("companies").
		Where(squirrel.Or{squirrel.Eq{"email": email}, squirrel.Eq{"name": name}}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build company exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking company existence")
		return false, fmt.Errorf("error checking company existence: %w", err)
	}
	return exists, nil
}

// Update saves every mutable column of company, running the save hook first
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	if err := company.BeforeSave(); err != nil {
		return err
	}

	sql, args, err := r.sb.Update("companies").
		Set("name", company.Name).
		Set("email", company.Email).
		Set("password", company.Password).
		Set("two_factor_secret", company.TwoFactorSecret).
		Set("two_factor_enabled", company.TwoFactorEnabled).
		Set("is_verified", company.IsVerified).
		Set("verification_token", company.VerificationToken).
		Set("reset_password_token", company.ResetPasswordToken).
		Set("reset_password_expires", company.ResetPasswordExpires).
		Set("last_login", company.LastLogin).
		Where(squirrel.Eq{"id": company.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update company query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("Company name or email already in use")
		}
		logger.Error().Err(err).Str("companyID", company.ID.String()).Msg("Error updating company")
		return fmt.Errorf("error updating company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// UpdateLastLogin records a successful login
func (r *CompanyRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	sql, args, err := r.sb.Update("companies").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("companyID", id.String()).Msg("Error updating last login")
		return fmt.Errorf("error updating last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

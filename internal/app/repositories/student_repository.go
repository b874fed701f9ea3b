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

// StudentFilter narrows a student search. Zero values disable a predicate;
// all enabled predicates must hold.
type StudentFilter struct {
	Career         *string
	MinGrade       *float64
	HasExperience  bool
	Certifications []string
	YearOfStudy    *int
	SortBy         models.SortKey
}

// IStudentRepository defines the persistence operations on student profiles
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Find(ctx context.Context, filter StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	AppendCertification(ctx context.Context, id uuid.UUID, cert models.Certification) ([]models.Certification, error)
	AppendExperience(ctx context.Context, id uuid.UUID, exp models.Experience) ([]models.Experience, error)
	DistinctCareers(ctx context.Context) ([]string, error)
	DistinctCertificationNames(ctx context.Context) ([]string, error)
}

var studentColumns = []string{
	"id", "name", "identification_number", "career", "year_of_study", "photo",
	"grades", "approved_courses", "certifications", "experience", "created_at", "updated_at",
}

const (
	minGradePredicate      = "EXISTS (SELECT 1 FROM jsonb_array_elements(grades) AS g WHERE (g->>'grade')::numeric >= ?)"
	certificationPredicate = "EXISTS (SELECT 1 FROM jsonb_array_elements(certifications) AS c WHERE c->>'name' = ANY(?))"
	hasExperiencePredicate = "jsonb_array_length(experience) > 0"

	orderByHighestGrade       = "(SELECT MAX((g->>'grade')::numeric) FROM jsonb_array_elements(grades) AS g) DESC NULLS LAST"
	orderByExperienceCount    = "jsonb_array_length(experience) DESC"
	orderByCertificationCount = "jsonb_array_length(certifications) DESC"
)

// StudentRepository handles student database operations.
// The four sub-document lists live in JSONB columns.
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.BeforeSave()
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(
			student.ID, student.Name, student.IdentificationNumber, student.Career, student.YearOfStudy,
			student.Photo, student.Grades, student.ApprovedCourses, student.Certifications,
			student.Experience, student.CreatedAt, student.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentIdentificationNumber) {
			return apperrors.NewConflictError("Identification number already exists")
		}
		logger.Error().Err(err).Str("identificationNumber", student.IdentificationNumber).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// ExistsByIdentificationNumber reports whether a student with the identification number is stored
func (r *StudentRepository) ExistsByIdentificationNumber(ctx context.Context, identificationNumber string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"identification_number": identificationNumber}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a student; an id that is not a UUID is reported as not found without querying
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	studentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}

	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// Find returns every student matching filter, ordered by filter.SortBy
func (r *StudentRepository) Find(ctx context.Context, filter StudentFilter) ([]*models.Student, error) {
	sql, args, err := r.buildFindQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing find students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) buildFindQuery(filter StudentFilter) squirrel.SelectBuilder {
	q := r.sb.Select(studentColumns...).From("students")

	if filter.Career != nil {
		q = q.Where(squirrel.Eq{"career": *filter.Career})
	}
	if filter.MinGrade != nil {
		q = q.Where(minGradePredicate, *filter.MinGrade)
	}
	if filter.HasExperience {
		q = q.Where(hasExperiencePredicate)
	}
	if len(filter.Certifications) > 0 {
		q = q.Where(certificationPredicate, filter.Certifications)
	}
	if filter.YearOfStudy != nil {
		q = q.Where(squirrel.Eq{"year_of_study": *filter.YearOfStudy})
	}

	return q.OrderBy(sortClause(filter.SortBy), "created_at ASC")
}

func sortClause(key models.SortKey) string {
	switch key {
	case models.SortByExperience:
		return orderByExperienceCount
	case models.SortByCertifications:
		return orderByCertificationCount
	default:
		return orderByHighestGrade
	}
}

// Update saves every mutable column of student, running the save hook first
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.BeforeSave()

	sql, args, err := r.sb.Update("students").
		Set("name", student.Name).
		Set("career", student.Career).
		Set("year_of_study", student.YearOfStudy).
		Set("photo", student.Photo).
		Set("grades", student.Grades).
		Set("approved_courses", student.ApprovedCourses).
		Set("certifications", student.Certifications).
		Set("experience", student.Experience).
		Set("updated_at", student.UpdatedAt).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", student.ID.String()).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// AppendCertification adds cert to the end of the student's certification list in one statement
// and returns the resulting list.
func (r *StudentRepository) AppendCertification(ctx context.Context, id uuid.UUID, cert models.Certification) ([]models.Certification, error) {
	var certs []models.Certification
	if err := r.appendTo(ctx, id, "certifications", []models.Certification{cert}, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

// AppendExperience adds exp to the end of the student's experience list in one statement
// and returns the resulting list.
func (r *StudentRepository) AppendExperience(ctx context.Context, id uuid.UUID, exp models.Experience) ([]models.Experience, error) {
	var experience []models.Experience
	if err := r.appendTo(ctx, id, "experience", []models.Experience{exp}, &experience); err != nil {
		return nil, err
	}
	return experience, nil
}

func (r *StudentRepository) appendTo(ctx context.Context, id uuid.UUID, column string, entries any, dest any) error {
	sql, args, err := r.sb.Update("students").
		Set(column, squirrel.Expr(column+" || ?::jsonb", entries)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + column).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build append %s query: %w", column, err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(dest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", id.String()).Str("column", column).Msg("Error appending to student list")
		return fmt.Errorf("error appending %s: %w", column, err)
	}
	return nil
}

// DistinctCareers lists every career present in the directory
func (r *StudentRepository) DistinctCareers(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT career").
		From("students").
		Where(squirrel.NotEq{"career": ""}).
		OrderBy("career").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build distinct careers query: %w", err)
	}
	return r.queryStrings(ctx, sql, args)
}

// DistinctCertificationNames lists every certification name held by any student
func (r *StudentRepository) DistinctCertificationNames(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT c->>'name' AS name").
		From("students, jsonb_array_elements(certifications) AS c").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build distinct certifications query: %w", err)
	}
	return r.queryStrings(ctx, sql, args)
}

func (r *StudentRepository) queryStrings(ctx context.Context, sql string, args []interface{}) ([]string, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing lookup query")
		return nil, fmt.Errorf("error querying lookup values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning lookup value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookup rows: %w", err)
	}
	return values, nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.Name, &s.IdentificationNumber, &s.Career, &s.YearOfStudy, &s.Photo,
		&s.Grades, &s.ApprovedCourses, &s.Certifications, &s.Experience, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

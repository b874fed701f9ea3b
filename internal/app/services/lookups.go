package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/pkg/cache"
)

// StudentLookups serves the distinct career and certification lists through the lookup cache.
// Cache failures are logged and answered from the database.
type StudentLookups struct {
	studentRepo repositories.IStudentRepository
	cache       cache.LookupCache
	logger      zerolog.Logger
}

// NewStudentLookups creates a new StudentLookups
func NewStudentLookups(studentRepo repositories.IStudentRepository, lookupCache cache.LookupCache, logger zerolog.Logger) *StudentLookups {
	if lookupCache == nil {
		lookupCache = cache.NoopCache{}
	}
	return &StudentLookups{
		studentRepo: studentRepo,
		cache:       lookupCache,
		logger:      logger,
	}
}

// Careers returns every distinct career
func (l *StudentLookups) Careers(ctx context.Context) ([]string, error) {
	return l.cached(ctx, cache.KeyCareers, l.studentRepo.DistinctCareers)
}

// CertificationNames returns every distinct certification name
func (l *StudentLookups) CertificationNames(ctx context.Context) ([]string, error) {
	return l.cached(ctx, cache.KeyCertificationNames, l.studentRepo.DistinctCertificationNames)
}

// Invalidate drops both cached lists after a student mutation
func (l *StudentLookups) Invalidate(ctx context.Context) {
	if err := l.cache.Invalidate(ctx, cache.KeyCareers, cache.KeyCertificationNames); err != nil {
		l.logger.Warn().Err(err).Msg("Failed to invalidate lookup cache")
	}
}

func (l *StudentLookups) cached(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	values, found, err := l.cache.GetStrings(ctx, key)
	if err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Lookup cache read failed, using database")
	} else if found {
		return values, nil
	}

	values, err = load(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.cache.SetStrings(ctx, key, values); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("Lookup cache write failed")
	}
	return values, nil
}

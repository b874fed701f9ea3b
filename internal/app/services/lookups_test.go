package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/pkg/cache"
	"github.com/yigit/cvportal/internal/pkg/filestorage"
)

func newRedisLookups(t *testing.T, f *studentFixture) (*miniredis.Miniredis, *StudentLookups) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewStudentLookups(f.repo, cache.NewRedisCache(client, time.Minute), zerolog.Nop())
}

func TestStudentLookups_CachesUntilStudentMutation(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(ana())
	_, lookups := newRedisLookups(t, f)
	students := NewStudentService(f.repo, f.storage, lookups, filestorage.MaxUploadSize, zerolog.Nop())
	ctx := context.Background()

	careers, err := lookups.Careers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science"}, careers)

	f.repo.MustAdd(bruno())
	careers, err = lookups.Careers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science"}, careers, "served from cache")

	_, err = students.Update(ctx, id.String(), &dto.UpdateStudentRequest{Career: ptr("Medicine")})
	require.NoError(t, err)

	careers, err = lookups.Careers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Law", "Medicine"}, careers)
}

func TestStudentLookups_FallsBackWhenCacheIsDown(t *testing.T) {
	f := newStudentFixture(t)
	f.repo.MustAdd(ana())
	mr, lookups := newRedisLookups(t, f)
	mr.Close()

	names, err := lookups.CertificationNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AWS Cloud Practitioner"}, names)
}

func TestStudentLookups_DatabaseErrorPropagates(t *testing.T) {
	f := newStudentFixture(t)
	f.repo.Err = errors.New("db down")

	_, err := f.lookups.Careers(context.Background())
	assert.Error(t, err)
}

package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existsQuery = `SELECT EXISTS \(.*FROM students WHERE identification_number = \$1`

func TestStudents_SkipsExisting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	demo := DemoStudents()
	require.Len(t, demo, 3)

	mock.ExpectBegin()
	for i, student := range demo {
		mock.ExpectQuery(existsQuery).
			WithArgs(student.IdentificationNumber).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(i == 0))
		if i > 0 {
			mock.ExpectExec(`INSERT INTO students`).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
	}
	mock.ExpectCommit()

	created, err := Students(context.Background(), mock, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudents_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(existsQuery).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	created, err := Students(context.Background(), mock, zerolog.Nop())
	assert.Error(t, err)
	assert.Zero(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDemoStudents_UniqueIdentificationNumbers(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range DemoStudents() {
		assert.False(t, seen[s.IdentificationNumber], s.IdentificationNumber)
		seen[s.IdentificationNumber] = true
	}
}

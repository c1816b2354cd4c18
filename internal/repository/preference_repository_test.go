package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

func TestPreferenceRepositoryDemandByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "demand"}).
		AddRow("c-1", 120).
		AddRow("c-2", 35)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id, COUNT(*) AS demand FROM preferences GROUP BY course_id")).
		WillReturnRows(rows)

	demand, err := repo.DemandByCourse(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"c-1": 120, "c-2": 35}, demand)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryUpsertFillsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectExec("INSERT INTO preferences").
		WillReturnResult(sqlmock.NewResult(0, 1))

	pref := &models.Preference{StudentID: "s-1", CourseID: "c-1", Priority: 2}
	require.NoError(t, repo.Upsert(context.Background(), pref))
	require.NotEmpty(t, pref.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "priority"}).
		AddRow("p-1", "s-1", "c-1", 1).
		AddRow("p-2", "s-1", "c-2", 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, course_id, priority FROM preferences WHERE student_id = $1 ORDER BY priority ASC, course_id ASC")).
		WithArgs("s-1").
		WillReturnRows(rows)

	preferences, err := repo.ListByStudent(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, preferences, 2)
	require.Equal(t, 1, preferences[0].Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}

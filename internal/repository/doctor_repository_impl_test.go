package repository

import (
	"context"
	"testing"
	"time"

	"go-medical-appointment/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorRepository_ReplaceWorkingHours(t *testing.T) {
	ctx := context.Background()
	doctorID := uuid.New()

	t.Run("deletes then inserts the new plan", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "doctor_working_hours" WHERE doctor_id = \$1`).
			WithArgs(doctorID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectQuery(`INSERT INTO "doctor_working_hours"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
		mock.ExpectCommit()

		hours := []entity.WorkingHours{
			{ID: 99, DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: time.Monday, StartTime: "13:00", EndTime: "17:00"},
		}
		require.NoError(t, repo.ReplaceWorkingHours(ctx, doctorID, hours))
		assert.Equal(t, doctorID, hours[0].DoctorID)
		assert.Equal(t, doctorID, hours[1].DoctorID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty plan only clears", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDoctorRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "doctor_working_hours"`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		require.NoError(t, repo.ReplaceWorkingHours(ctx, doctorID, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDoctorRepository_SetActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "doctors" SET "is_active"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(false, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.SetActive(context.Background(), id, false)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestDoctorRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "doctors" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}))

	doctor, err := repo.FindByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, doctor)
}

package progress

import (
	"testing"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestMarkUnitCompleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		snapshot, err := MarkUnitComplete(db, 1, 10, "L1", 4)
		require.NoError(t, err)
		assert.Equal(t, int64(1), snapshot.CompletedCount)
	}

	var count int64
	require.NoError(t, db.Model(&courseModels.ProgressUnit{}).
		Where("user_id = ? AND course_id = ? AND unit_id = ?", 1, 10, "L1").
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "repeated completion must not duplicate the unit")
}

func TestProgressStateMachine(t *testing.T) {
	db := setupTestDB(t)

	snapshot, err := GetProgress(db, 1, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusNotStarted, snapshot.Status)
	assert.Equal(t, float64(0), snapshot.Percentage)

	snapshot, err = MarkUnitComplete(db, 1, 10, "L1", 2)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, snapshot.Status)
	assert.Equal(t, float64(50), snapshot.Percentage)

	snapshot, err = MarkUnitComplete(db, 1, 10, "L2", 2)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snapshot.Status)
	assert.Equal(t, float64(100), snapshot.Percentage)
}

func TestGetProgressLazilyCreatesRecord(t *testing.T) {
	db := setupTestDB(t)

	var before int64
	require.NoError(t, db.Model(&courseModels.Progress{}).Count(&before).Error)
	assert.Equal(t, int64(0), before)

	snapshot, err := GetProgress(db, 1, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.CompletedCount)
	assert.Equal(t, 5, snapshot.TotalCount)
	assert.Equal(t, float64(0), snapshot.Percentage)

	var after int64
	require.NoError(t, db.Model(&courseModels.Progress{}).
		Where("user_id = ? AND course_id = ?", 1, 10).
		Count(&after).Error)
	assert.Equal(t, int64(1), after)

	// A second read reuses the record
	_, err = GetProgress(db, 1, 10, 5)
	require.NoError(t, err)
	require.NoError(t, db.Model(&courseModels.Progress{}).Count(&after).Error)
	assert.Equal(t, int64(1), after)
}

func TestPercentageBounds(t *testing.T) {
	db := setupTestDB(t)

	// Zero total units defines percentage as 0
	snapshot, err := GetProgress(db, 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(0), snapshot.Percentage)
	assert.Equal(t, StatusNotStarted, snapshot.Status)

	snapshot, err = MarkUnitComplete(db, 2, 10, "L1", 1)
	require.NoError(t, err)
	assert.Equal(t, float64(100), snapshot.Percentage)
	assert.GreaterOrEqual(t, snapshot.Percentage, float64(0))
	assert.LessOrEqual(t, snapshot.Percentage, float64(100))
}

func TestAddTimeSpentIsAdditive(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, AddTimeSpent(db, 1, 10, 5))
	require.NoError(t, AddTimeSpent(db, 1, 10, 3))

	snapshot, err := GetProgress(db, 1, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(8), snapshot.TimeSpentMinutes)

	// Time spent never moves the completion state
	assert.Equal(t, StatusNotStarted, snapshot.Status)
}

func TestAddTimeSpentValidation(t *testing.T) {
	db := setupTestDB(t)

	assert.ErrorIs(t, AddTimeSpent(db, 1, 10, 0), ErrInvalidMinutes)
	assert.ErrorIs(t, AddTimeSpent(db, 1, 10, -5), ErrInvalidMinutes)
	assert.ErrorIs(t, AddTimeSpent(db, 1, 10, MaxMinutesPerIncrement+1), ErrIncrementTooLarge)

	require.NoError(t, AddTimeSpent(db, 1, 10, MaxMinutesPerIncrement))

	snapshot, err := GetProgress(db, 1, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxMinutesPerIncrement), snapshot.TimeSpentMinutes)
}

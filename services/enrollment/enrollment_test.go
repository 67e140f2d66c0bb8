package enrollment

import (
	"testing"

	"lms/database"
	"lms/models"
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

func TestGrantIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Grant(db, 1, 10))
	require.NoError(t, Grant(db, 1, 10))
	require.NoError(t, Grant(db, 1, 10))

	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", 1, 10).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGrantSeparatePairs(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Grant(db, 1, 10))
	require.NoError(t, Grant(db, 1, 11))
	require.NoError(t, Grant(db, 2, 10))

	count, err := CountForUser(db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestHasAccess(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Email: "student@example.com", Password: "x", Role: "USER"}
	require.NoError(t, db.Create(&user).Error)

	ok, err := HasAccess(db, &user, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Grant(db, user.ID, 10))

	// Access persists on every subsequent check
	for i := 0; i < 3; i++ {
		ok, err = HasAccess(db, &user, 10)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err = HasAccess(db, &user, 11)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAccessAdminBypass(t *testing.T) {
	db := setupTestDB(t)

	admin := models.User{Email: "admin@example.com", Password: "x", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)

	// No grant exists, but the elevated role implicitly holds every course
	ok, err := HasAccess(db, &admin, 999)
	require.NoError(t, err)
	assert.True(t, ok)

	enrolled, err := IsEnrolled(db, admin.ID, 999)
	require.NoError(t, err)
	assert.False(t, enrolled, "admin bypass must not fabricate set membership")
}

func TestCoursesForUser(t *testing.T) {
	db := setupTestDB(t)

	first := courseModels.Course{Title: "Go Basics", Author: "A", IsPublished: true}
	second := courseModels.Course{Title: "Advanced Go", Author: "B", IsPublished: true}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, Grant(db, 1, first.ID))
	require.NoError(t, Grant(db, 1, second.ID))

	courses, err := CoursesForUser(db, 1)
	require.NoError(t, err)
	require.Len(t, courses, 2)
}

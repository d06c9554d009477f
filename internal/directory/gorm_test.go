package directory

import (
	"context"
	"os"
	"testing"

	"devmatch/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// These tests require a running postgres instance.
// Set TEST_DATABASE_URL to enable them.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	t.Cleanup(func() {
		db.Unscoped().Delete(&models.User{}, user.ID)
	})
	return user
}

func TestGormPairedEdgeUpdate(t *testing.T) {
	db := openTestDB(t)
	dir := NewGorm(db)
	ctx := context.Background()

	a := createTestUser(t, db, "gorm-dir-a@example.com")
	b := createTestUser(t, db, "gorm-dir-b@example.com")

	err := dir.ApplyPairedEdgeUpdate(ctx, a.ID, b.ID,
		func(u *models.User) { u.SentRequests.Add(b.ID) },
		func(u *models.User) { u.ConnectionRequests.Add(a.ID) },
	)
	require.NoError(t, err)

	storedA, err := dir.Get(ctx, a.ID)
	require.NoError(t, err)
	storedB, err := dir.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, storedA.SentRequests.Contains(b.ID))
	assert.True(t, storedB.ConnectionRequests.Contains(a.ID))
}

func TestGormEdgeUpdatePersistsOnlyRelationColumns(t *testing.T) {
	db := openTestDB(t)
	dir := NewGorm(db)
	ctx := context.Background()

	user := createTestUser(t, db, "gorm-dir-c@example.com")

	updated, err := dir.ApplyEdgeUpdate(ctx, user.ID, func(u *models.User) {
		u.Connections.Add(42)
	})
	require.NoError(t, err)
	assert.True(t, updated.Connections.Contains(42))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.Connections.Contains(42))
	assert.Equal(t, "Test", stored.FirstName)
}

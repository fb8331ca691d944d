package repositories

import (
	"context"
	"errors"
	"testing"

	"climbing-gym/belay/internal/constants"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(gormModels.AllModels()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *gormModels.User {
	t.Helper()
	user := &gormModels.User{Email: email, IsActive: true}
	require.NoError(t, db.Omit("Roles", "Details", "Biometric", "Preference").Create(user).Error)
	require.NoError(t, db.Create(&gormModels.UserDetails{UserID: user.ID}).Error)
	return user
}

func TestUserRepository_AuthStateSkipsDisabledRoles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepositoryGORM(db)
	user := createUser(t, db, "ada@belay.test")

	require.NoError(t, db.Create(&gormModels.Role{UserID: user.ID, Name: constants.RoleClimber, RoleStatus: true}).Error)
	require.NoError(t, db.Create(&gormModels.Role{UserID: user.ID, Name: constants.RoleGymStaff, RoleStatus: false}).Error)

	state, err := repo.GetAuthState(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, state.IsActive)
	assert.Equal(t, []constants.Role{constants.RoleClimber}, state.Roles)

	_, err = repo.GetAuthState(context.Background(), user.ID+100)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserRepository_UpdatePasswordBumpsTokenVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepositoryGORM(db)
	user := createUser(t, db, "ada@belay.test")
	ctx := context.Background()

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "hash-1"))
	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "hash-2"))

	stored, err := repo.GetByID(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "hash-2", stored.Password)
	assert.Equal(t, 2, stored.TokenVersion)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, user.ID+100, "hash"), ErrNotFound)
}

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepositoryGORM(db)
	createUser(t, db, "ada@belay.test")

	exists, err := repo.EmailExists(context.Background(), "  ADA@belay.test ")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByEmail(context.Background(), "bob@belay.test")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_ClearDeviceTokens(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepositoryGORM(db)
	ctx := context.Background()
	ada := createUser(t, db, "ada@belay.test")
	bob := createUser(t, db, "bob@belay.test")

	require.NoError(t, repo.UpdateDeviceToken(ctx, ada.ID, "dead-token"))
	require.NoError(t, repo.UpdateDeviceToken(ctx, bob.ID, "live-token"))
	require.NoError(t, repo.ClearDeviceTokens(ctx, []string{"dead-token"}))
	require.NoError(t, repo.ClearDeviceTokens(ctx, nil))

	var tokens []string
	require.NoError(t, db.Model(&gormModels.UserDetails{}).Order("user_id").Pluck("device_token", &tokens).Error)
	assert.Equal(t, []string{"", "live-token"}, tokens)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
	assert.Equal(t, "crimp", escapeLike("crimp"))
}

func TestWeeklyCountDelta(t *testing.T) {
	assert.Equal(t, int64(-3), WeeklyCount{Total: 10, ThisWeek: 2, LastWeek: 5}.Delta())
	assert.Equal(t, int64(0), WeeklyCount{}.Delta())
}

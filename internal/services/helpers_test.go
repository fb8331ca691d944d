package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/metrics"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(gormModels.AllModels()...))
	return db
}

func testMetrics() *metrics.MetricsRegistry {
	return metrics.NewMetricsRegistryWith(prometheus.NewRegistry())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

type sentEmail struct {
	Recipients []string
	Subject    string
	Template   string
	Data       map[string]string
}

type sentPush struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// recordingNotifier captures outbound notifications instead of queueing them
type recordingNotifier struct {
	mu     sync.Mutex
	emails []sentEmail
	pushes []sentPush
	err    error
}

func (n *recordingNotifier) EmailHTML(_ context.Context, recipients []string, subject, template string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, sentEmail{Recipients: recipients, Subject: subject, Template: template, Data: data})
	return n.err
}

func (n *recordingNotifier) EmailPlain(_ context.Context, recipients []string, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, sentEmail{Recipients: recipients, Subject: subject, Data: map[string]string{"body": body}})
	return n.err
}

func (n *recordingNotifier) Push(_ context.Context, deviceTokens []string, title, body string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, sentPush{Tokens: deviceTokens, Title: title, Body: body, Data: data})
	return n.err
}

func ptr[T any](v T) *T { return &v }

// seedUser inserts an active, verified user with the given role
func seedUser(t *testing.T, db *gorm.DB, email string, role constants.Role) *gormModels.User {
	t.Helper()
	user := &gormModels.User{Email: email, FullName: "Test " + email, IsActive: true, IsEmailVerified: true}
	require.NoError(t, db.Omit("Roles", "Details", "Biometric", "Preference").Create(user).Error)
	require.NoError(t, db.Create(&gormModels.Role{UserID: user.ID, Name: role, RoleStatus: true}).Error)
	return user
}

// seedGym creates an owner and their gym. ownerCreated backdates the owner account.
func seedGym(t *testing.T, db *gorm.DB, ownerCreated time.Time) *gormModels.Gym {
	t.Helper()
	owner := seedUser(t, db, "owner@gym.test", constants.RoleGymOwner)
	require.NoError(t, db.Model(owner).UpdateColumn("created_at", ownerCreated).Error)
	owner.CreatedAt = ownerCreated

	gym := &gormModels.Gym{
		UserID:       owner.ID,
		GymName:      "Crux",
		RopeClimbing: ptr(constants.GradeYDS),
		Bouldering:   ptr(constants.GradeVSystem),
		IsActive:     true,
	}
	require.NoError(t, db.Omit("User").Create(gym).Error)
	gym.User = *owner
	return gym
}

// seedMember makes user a member of gym through their home gym
func seedMember(t *testing.T, db *gorm.DB, gym *gormModels.Gym, email string, role constants.Role) *gormModels.User {
	t.Helper()
	user := seedUser(t, db, email, role)
	now := time.Now()
	require.NoError(t, db.Create(&gormModels.UserDetails{UserID: user.ID, HomeGymID: &gym.ID, HomeGymAddedOn: &now}).Error)
	require.NoError(t, db.Create(&gormModels.UserBiometric{UserID: user.ID}).Error)
	require.NoError(t, db.Create(&gormModels.UserPreference{UserID: user.ID}).Error)
	return user
}

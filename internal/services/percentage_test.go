package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"climbing-gym/belay/internal/db/repositories"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicPercentage(t *testing.T) {
	assert.Equal(t, 0.0, BasicPercentage(BasicInput{}))
	assert.Equal(t, 50.0, BasicPercentage(BasicInput{FullName: "Alex", Email: "a@b.c"}))
	assert.Equal(t, 100.0, BasicPercentage(BasicInput{Avatar: "a.png", FullName: "Alex", Email: "a@b.c", PreferClimbing: ptr(2)}))
	// out of range preference does not count
	assert.Equal(t, 75.0, BasicPercentage(BasicInput{Avatar: "a.png", FullName: "Alex", Email: "a@b.c", PreferClimbing: ptr(7)}))
}

func TestClimbingPercentage(t *testing.T) {
	assert.InDelta(t, 71.43, round2(ClimbingPercentage(ClimbingInput{})), 0.001)
	assert.InDelta(t, 85.71, round2(ClimbingPercentage(ClimbingInput{StrengthMove: []string{"dyno"}})), 0.001)
	assert.Equal(t, 100.0, ClimbingPercentage(ClimbingInput{StrengthHold: []string{"crimp"}, WeaknessMove: []string{"heel hook"}}))
}

func TestBiometricPercentage(t *testing.T) {
	assert.Equal(t, 0.0, BiometricPercentage(BiometricInput{}))
	assert.Equal(t, 25.0, BiometricPercentage(BiometricInput{Height: ptr(1.8), Gender: 1}))

	birthday := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	full := BiometricInput{
		Height: ptr(1.8), Wingspan: ptr(1.85), ApeIndex: ptr(0.05), Gender: 2,
		Birthday: &birthday, Weight: ptr(70.0), ShoeSize: ptr(42.0), HandSize: ptr(19.0),
	}
	assert.Equal(t, 100.0, BiometricPercentage(full))
}

func TestOverallPercentage(t *testing.T) {
	assert.Equal(t, 50.0, OverallPercentage(50, 50, 50))
	assert.InDelta(t, 40.48, round2(OverallPercentage(50, 71.43, 0)), 0.001)
}

type fakePercentageStore struct {
	stored    *gormModels.UserDetailPercentage
	getErr    error
	upsertErr error
}

func (f *fakePercentageStore) Get(_ context.Context, _ uint) (*gormModels.UserDetailPercentage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *f.stored
	return &cp, nil
}

func (f *fakePercentageStore) Upsert(_ context.Context, p *gormModels.UserDetailPercentage) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	cp := *p
	f.stored = &cp
	return nil
}

type fakeUserLoader struct {
	getByIDFunc func(ctx context.Context, userID uint, includeDeleted bool) (*gormModels.User, error)
}

func (f *fakeUserLoader) GetByID(ctx context.Context, userID uint, includeDeleted bool) (*gormModels.User, error) {
	return f.getByIDFunc(ctx, userID, includeDeleted)
}

func climberFixture() *gormModels.User {
	return &gormModels.User{
		Base:       gormModels.Base{ID: 9},
		FullName:   "Alex Honnold",
		Email:      "alex@example.com",
		Details:    &gormModels.UserDetails{UserAvatar: "alex.png", StrengthHold: []string{"crimp"}},
		Preference: &gormModels.UserPreference{PreferClimbing: ptr(0)},
		Biometric:  &gormModels.UserBiometric{Height: ptr(1.8), Weight: ptr(72.0)},
	}
}

func TestPercentageService_RecalculateAllParts(t *testing.T) {
	store := &fakePercentageStore{}
	users := &fakeUserLoader{getByIDFunc: func(context.Context, uint, bool) (*gormModels.User, error) {
		return climberFixture(), nil
	}}
	svc := NewPercentageService(store, users, testMetrics())

	snap, err := svc.Recalculate(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, uint(9), snap.UserID)
	assert.Equal(t, 100.0, snap.BasicDetail)
	assert.Equal(t, 85.71, snap.ClimbingDetail)
	assert.Equal(t, 25.0, snap.BiometricDetail)
	assert.Equal(t, 70.24, snap.OverallDetail)
	require.NotNil(t, store.stored)
	assert.Equal(t, 70.24, store.stored.OverallDetail)
}

func TestPercentageService_RecalculateSinglePartKeepsOthers(t *testing.T) {
	store := &fakePercentageStore{stored: &gormModels.UserDetailPercentage{
		UserID: 9, BasicDetail: 10, ClimbingDetail: 20, BiometricDetail: 30, OverallDetail: 20,
	}}
	users := &fakeUserLoader{getByIDFunc: func(context.Context, uint, bool) (*gormModels.User, error) {
		return climberFixture(), nil
	}}
	svc := NewPercentageService(store, users, testMetrics())

	snap, err := svc.Recalculate(context.Background(), 9, PartBiometric)
	require.NoError(t, err)

	assert.Equal(t, 10.0, snap.BasicDetail)
	assert.Equal(t, 20.0, snap.ClimbingDetail)
	assert.Equal(t, 25.0, snap.BiometricDetail)
	assert.Equal(t, 18.33, snap.OverallDetail)
}

func TestPercentageService_RecalculateQuietlyCountsFailures(t *testing.T) {
	store := &fakePercentageStore{upsertErr: errors.New("disk full")}
	users := &fakeUserLoader{getByIDFunc: func(context.Context, uint, bool) (*gormModels.User, error) {
		return climberFixture(), nil
	}}
	reg := testMetrics()
	svc := NewPercentageService(store, users, reg)

	_, err := svc.Recalculate(context.Background(), 9, PartBasic)
	var pErr *PercentageError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, []PercentagePart{PartBasic}, pErr.Parts)

	svc.RecalculateQuietly(context.Background(), 9, PartBasic, PartClimbing)
	assert.Equal(t, 1.0, counterValue(t, reg.PercentageFailures.WithLabelValues("basic")))
	assert.Equal(t, 1.0, counterValue(t, reg.PercentageFailures.WithLabelValues("climbing")))
	assert.Nil(t, store.stored)
}

func TestPercentageService_UnknownUser(t *testing.T) {
	users := &fakeUserLoader{getByIDFunc: func(context.Context, uint, bool) (*gormModels.User, error) {
		return nil, repositories.ErrNotFound
	}}
	svc := NewPercentageService(&fakePercentageStore{}, users, nil)

	_, err := svc.Recalculate(context.Background(), 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestWeekWindow(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 30, 0, 0, time.UTC)

	w := newWeekWindow(now, now.AddDate(0, -2, 0))
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), w.from)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), w.mid)
	assert.False(t, w.newGym)
	assert.Equal(t, int64(3), w.delta(repositories.WeeklyCount{Total: 10, ThisWeek: 5, LastWeek: 2}))

	fresh := newWeekWindow(now, time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC))
	assert.True(t, fresh.newGym)
	assert.Equal(t, int64(0), fresh.delta(repositories.WeeklyCount{Total: 10, ThisWeek: 5, LastWeek: 2}))
}

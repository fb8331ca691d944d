package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberStore struct {
	rows          []repositories.MemberRow
	stamps        []repositories.FeedbackStamp
	routeMatches  map[string][]uint
	weekly        repositories.WeeklyCount
	members       map[uint]bool
	profile       *gormModels.User
	weeklyFrom    time.Time
	weeklyMid     time.Time
	routeMatchHit int
}

func (f *fakeMemberStore) BaseMembers(context.Context, uint) ([]repositories.MemberRow, error) {
	out := make([]repositories.MemberRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeMemberStore) FeedbackStamps(context.Context, uint) ([]repositories.FeedbackStamp, error) {
	return f.stamps, nil
}

func (f *fakeMemberStore) UserIDsWithRouteMatch(_ context.Context, _ uint, term string) ([]uint, error) {
	f.routeMatchHit++
	return f.routeMatches[term], nil
}

func (f *fakeMemberStore) MemberWeeklyCount(_ context.Context, _ uint, from, mid time.Time) (repositories.WeeklyCount, error) {
	f.weeklyFrom, f.weeklyMid = from, mid
	return f.weekly, nil
}

func (f *fakeMemberStore) IsMember(_ context.Context, _ uint, userID uint) (bool, error) {
	return f.members[userID], nil
}

func (f *fakeMemberStore) Profile(context.Context, uint) (*gormModels.User, error) {
	if f.profile == nil {
		return nil, repositories.ErrNotFound
	}
	return f.profile, nil
}

type fakeMemberBlocker struct {
	blocked []uint
}

func (f *fakeMemberBlocker) BlockMember(_ context.Context, _ uint, userID uint) error {
	f.blocked = append(f.blocked, userID)
	return nil
}

type fakeProfileAccess struct {
	level int
	err   error
}

func (f fakeProfileAccess) UserProfileAccess(context.Context, GymContext) (int, error) {
	return f.level, f.err
}

var memberNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func memberFixture() *fakeMemberStore {
	yds := "YDS Scale"
	vSystem := "V System"
	return &fakeMemberStore{
		rows: []repositories.MemberRow{
			{UserID: 10, FullName: "Ada Lovelace", Email: "ada@belay.test", Birthday: day(2000, 6, 16), Gender: ptr(2), RopeGrading: &yds},
			{UserID: 11, FullName: "Bob Climber", Email: "bob@belay.test", Birthday: day(1990, 1, 1), Gender: ptr(1), BoulderingGrading: &vSystem},
			{UserID: 12, FullName: "Cleo Crimp", Email: "cleo@belay.test", Gender: ptr(2), RopeGrading: &yds},
			{UserID: 13, FullName: "Dan Dyno", Email: "dan@belay.test", Birthday: day(1985, 3, 3)},
		},
		stamps: []repositories.FeedbackStamp{
			{UserID: 11, UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			{UserID: 11, UpdatedAt: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
			{UserID: 12, UpdatedAt: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)},
			{UserID: 10, UpdatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
		routeMatches: map[string][]uint{"arete": {11, 13}},
		members:      map[uint]bool{10: true},
	}
}

func newMemberService(store *fakeMemberStore) (*MemberListService, *fakeMemberBlocker) {
	blocker := &fakeMemberBlocker{}
	svc := NewMemberListService(store, blocker, fakeProfileAccess{level: ProfileAccessFull}, testMetrics())
	svc.now = func() time.Time { return memberNow }
	return svc, blocker
}

func ownerCtx() GymContext {
	owner := gormModels.User{Base: gormModels.Base{ID: 1, CreatedAt: memberNow.AddDate(-1, 0, 0)}}
	return NewOwnerContext(&gormModels.Gym{Base: gormModels.Base{ID: 5}, UserID: 1, User: owner})
}

func pageIDs(t *testing.T, svc *MemberListService, q MemberQuery) []uint {
	t.Helper()
	page, err := svc.ListMembers(context.Background(), ownerCtx(), q)
	require.NoError(t, err)
	ids := make([]uint, 0, len(page.Results))
	for _, r := range page.Results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestListMembers_DefaultOrderingIsLatestActivityFirst(t *testing.T) {
	svc, _ := newMemberService(memberFixture())

	page, err := svc.ListMembers(context.Background(), ownerCtx(), MemberQuery{})
	require.NoError(t, err)

	assert.Equal(t, 4, page.Count)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	// members without feedback sort first when descending, like NULLs in the store
	ids := []uint{}
	for _, r := range page.Results {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint{13, 12, 11, 10}, ids)

	bob := page.Results[2]
	assert.Equal(t, int64(2), bob.Submitted)
	require.NotNil(t, bob.LastUpdated)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), bob.LastUpdated.Time)
	require.NotNil(t, bob.Birthday)
	assert.Equal(t, "1990-01-01", *bob.Birthday)
	require.NotNil(t, bob.Age)
	assert.Equal(t, 34, *bob.Age)
}

func TestListMembers_Ordering(t *testing.T) {
	svc, _ := newMemberService(memberFixture())

	assert.Equal(t, []uint{10, 11, 12, 13}, pageIDs(t, svc, MemberQuery{OrderBy: "last_updated"}))
	assert.Equal(t, []uint{13, 10, 12, 11}, pageIDs(t, svc, MemberQuery{OrderBy: "submitted"}))
	assert.Equal(t, []uint{11, 10, 12, 13}, pageIDs(t, svc, MemberQuery{OrderBy: "-submitted"}))
	// unknown keys fall back to the default
	assert.Equal(t, []uint{13, 12, 11, 10}, pageIDs(t, svc, MemberQuery{OrderBy: "shoe_size"}))
}

func TestListMembers_Filters(t *testing.T) {
	store := memberFixture()
	svc, _ := newMemberService(store)

	assert.Equal(t, []uint{12, 10}, pageIDs(t, svc, MemberQuery{ClimbingLevel: "1"}))
	assert.Equal(t, []uint{11}, pageIDs(t, svc, MemberQuery{ClimbingLevel: "10"}))
	// unknown climbing level leaves the list unfiltered
	assert.Len(t, pageIDs(t, svc, MemberQuery{ClimbingLevel: "99"}), 4)

	assert.Equal(t, []uint{12, 10}, pageIDs(t, svc, MemberQuery{Gender: "2"}))
	assert.Equal(t, []uint{13, 11}, pageIDs(t, svc, MemberQuery{SearchSubmittedRoute: "arete"}))
	assert.Equal(t, 1, store.routeMatchHit)
	assert.Equal(t, []uint{12}, pageIDs(t, svc, MemberQuery{Search: "CRIMP"}))
	assert.Equal(t, []uint{11}, pageIDs(t, svc, MemberQuery{Search: "bob@"}))
}

func TestListMembers_AgeRange(t *testing.T) {
	svc, _ := newMemberService(memberFixture())

	// Ada turns 24 tomorrow so she is still 23
	assert.Equal(t, []uint{10}, pageIDs(t, svc, MemberQuery{AgeRange: "18-23"}))
	assert.Equal(t, []uint{13, 11}, pageIDs(t, svc, MemberQuery{AgeRange: "30-40"}))
	assert.Empty(t, pageIDs(t, svc, MemberQuery{AgeRange: "60-70"}))

	_, err := svc.ListMembers(context.Background(), ownerCtx(), MemberQuery{AgeRange: "thirty"})
	assert.Equal(t, constants.ErrCodeValidation, ErrorCode(err))
	_, err = svc.ListMembers(context.Background(), ownerCtx(), MemberQuery{Gender: "female"})
	assert.Equal(t, constants.ErrCodeValidation, ErrorCode(err))
}

func TestListMembers_Pagination(t *testing.T) {
	svc, _ := newMemberService(memberFixture())
	ctx := context.Background()

	page, err := svc.ListMembers(ctx, ownerCtx(), MemberQuery{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Count)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, uint(10), page.Results[0].ID)

	_, err = svc.ListMembers(ctx, ownerCtx(), MemberQuery{Page: 3, PageSize: 3})
	require.Error(t, err)
	assert.Equal(t, constants.ErrCodeNotFound, ErrorCode(err))
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Invalid page.", svcErr.Message)
}

func TestTotalMemberCount(t *testing.T) {
	store := memberFixture()
	store.weekly = repositories.WeeklyCount{Total: 40, ThisWeek: 6, LastWeek: 4}
	svc, _ := newMemberService(store)

	count, err := svc.TotalMemberCount(context.Background(), ownerCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(40), count.TotalUserCount)
	assert.Equal(t, int64(2), count.LastWeekUserCount)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), store.weeklyFrom)
	assert.Equal(t, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), store.weeklyMid)
}

func TestBlockMember(t *testing.T) {
	svc, blocker := newMemberService(memberFixture())
	ctx := context.Background()

	err := svc.BlockMember(ctx, ownerCtx(), 1)
	assert.Equal(t, constants.ErrCodeValidation, ErrorCode(err))

	require.NoError(t, svc.BlockMember(ctx, ownerCtx(), 10))
	assert.Equal(t, []uint{10}, blocker.blocked)
}

func TestMemberProfile_TrimsByAccessLevel(t *testing.T) {
	store := memberFixture()
	store.profile = &gormModels.User{
		Base:       gormModels.Base{ID: 10},
		FullName:   "Ada Lovelace",
		Details:    &gormModels.UserDetails{UserAvatar: "ada.png"},
		Preference: &gormModels.UserPreference{TopRope: "5.10a"},
		Biometric:  &gormModels.UserBiometric{Gender: 2, Birthday: day(2000, 6, 16), Height: ptr(1.7)},
	}

	svc, _ := newMemberService(store)
	svc.access = fakeProfileAccess{level: ProfileAccessBiometric}

	profile, err := svc.MemberProfile(context.Background(), ownerCtx(), 10)
	require.NoError(t, err)
	assert.Equal(t, ProfileAccessBiometric, profile.AccessLevel)
	assert.Equal(t, "ada.png", profile.UserAvatar)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 23, *profile.Age)
	assert.Nil(t, profile.SignUpInfo)
	require.NotNil(t, profile.Biometric)
	assert.Equal(t, "2000-06-16", *profile.Biometric.Birthday)

	svc.access = fakeProfileAccess{level: ProfileAccessSignUpInfo}
	profile, err = svc.MemberProfile(context.Background(), ownerCtx(), 10)
	require.NoError(t, err)
	assert.Nil(t, profile.Biometric)
	require.NotNil(t, profile.SignUpInfo)
	assert.Equal(t, "5.10a", profile.SignUpInfo.TopRope)

	_, err = svc.MemberProfile(context.Background(), ownerCtx(), 99)
	assert.Equal(t, constants.ErrCodeNotFound, ErrorCode(err))

	svc.access = fakeProfileAccess{err: &ServiceError{Code: constants.ErrCodeUpgradePlan}}
	_, err = svc.MemberProfile(context.Background(), ownerCtx(), 10)
	assert.Equal(t, constants.ErrCodeUpgradePlan, ErrorCode(err))
}

func TestAgeOnAndParseAgeRange(t *testing.T) {
	assert.Equal(t, 23, AgeOn(time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC), memberNow))
	assert.Equal(t, 24, AgeOn(time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), memberNow))

	lo, hi, ok := ParseAgeRange(" 18 - 30 ")
	assert.True(t, ok)
	assert.Equal(t, 18, lo)
	assert.Equal(t, 30, hi)

	_, _, ok = ParseAgeRange("18")
	assert.False(t, ok)
	_, _, ok = ParseAgeRange("-5-10")
	assert.False(t, ok)
}

func TestListMembers_AgeRangeAgainstStore(t *testing.T) {
	db := setupTestDB(t)
	gym := seedGym(t, db, memberNow.AddDate(-1, 0, 0))
	twentyYearsAgo := startOfDay(memberNow).AddDate(-20, 0, 0)

	var young []uint
	for i := 0; i < 10; i++ {
		user := seedMember(t, db, gym, fmt.Sprintf("climber%d@gym.test", i), constants.RoleClimber)
		if i%3 == 2 && len(young) < 6 {
			continue
		}
		if len(young) < 6 {
			require.NoError(t, db.Model(&gormModels.UserBiometric{}).Where("user_id = ?", user.ID).
				UpdateColumn("birthday", twentyYearsAgo).Error)
			young = append(young, user.ID)
		}
	}
	require.Len(t, young, 6)

	svc := NewMemberListService(repositories.NewMemberRepository(db), repositories.NewGymRepository(db),
		fakeProfileAccess{level: ProfileAccessFull}, testMetrics())
	svc.now = func() time.Time { return memberNow }

	page, err := svc.ListMembers(context.Background(), NewOwnerContext(gym), MemberQuery{AgeRange: "18-25"})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Count)
	ids := make([]uint, 0, len(page.Results))
	for _, r := range page.Results {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, young, ids)

	all, err := svc.ListMembers(context.Background(), NewOwnerContext(gym), MemberQuery{})
	require.NoError(t, err)
	assert.Equal(t, 10, all.Count)
}

package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"
)

// MemberQuery carries the member list filters as received on the query string
type MemberQuery struct {
	ClimbingLevel        string
	AgeRange             string
	Gender               string
	SearchSubmittedRoute string
	Search               string
	OrderBy              string
	Page                 int
	PageSize             int
}

type memberStore interface {
	BaseMembers(ctx context.Context, gymID uint) ([]repositories.MemberRow, error)
	FeedbackStamps(ctx context.Context, gymID uint) ([]repositories.FeedbackStamp, error)
	UserIDsWithRouteMatch(ctx context.Context, gymID uint, term string) ([]uint, error)
	MemberWeeklyCount(ctx context.Context, gymID uint, from, mid time.Time) (repositories.WeeklyCount, error)
	IsMember(ctx context.Context, gymID, userID uint) (bool, error)
	Profile(ctx context.Context, userID uint) (*gormModels.User, error)
}

type memberBlocker interface {
	BlockMember(ctx context.Context, gymID, userID uint) error
}

type profileAccessChecker interface {
	UserProfileAccess(ctx context.Context, gymCtx GymContext) (int, error)
}

type MemberListService struct {
	members memberStore
	gyms    memberBlocker
	access  profileAccessChecker
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewMemberListService(members memberStore, gyms memberBlocker, access profileAccessChecker, m *metrics.MetricsRegistry) *MemberListService {
	return &MemberListService{
		members: members,
		gyms:    gyms,
		access:  access,
		metrics: m,
		now:     time.Now,
	}
}

// ListMembers runs the member filter pipeline for the resolved gym.
func (s *MemberListService) ListMembers(ctx context.Context, gymCtx GymContext, q MemberQuery) (*responses.MemberPage, error) {
	var (
		ageLo, ageHi int
		hasAgeRange  bool
		gender       *int
	)
	if strings.TrimSpace(q.AgeRange) != "" {
		lo, hi, ok := ParseAgeRange(q.AgeRange)
		if !ok {
			return nil, validationError("age_range", "age_range must look like 18-30")
		}
		ageLo, ageHi, hasAgeRange = lo, hi, true
	}
	if strings.TrimSpace(q.Gender) != "" {
		g, err := strconv.Atoi(strings.TrimSpace(q.Gender))
		if err != nil {
			return nil, validationError("gender", "gender must be an integer")
		}
		gender = &g
	}
	if q.Page < 0 || q.PageSize < 0 {
		return nil, validationError("page", "page and page_size must be positive")
	}

	gymID := gymCtx.GymID()
	rows, err := s.members.BaseMembers(ctx, gymID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	stamps, err := s.members.FeedbackStamps(ctx, gymID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	activityByUser := annotateActivity(stamps)

	today := startOfDay(s.now())
	candidates := make([]memberCandidate, 0, len(rows))
	for _, row := range rows {
		a := activityByUser[row.UserID]
		c := memberCandidate{row: row, submitted: a.submitted, lastUpdated: a.lastUpdated}
		candidates = append(candidates, c)
	}

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		candidates = filterCandidates(candidates, func(c memberCandidate) bool {
			return strings.Contains(strings.ToLower(c.row.FullName), term) ||
				strings.Contains(strings.ToLower(c.row.Email), term)
		})
	}

	if match := climbingLevelMatcher(q.ClimbingLevel); match != nil {
		candidates = filterCandidates(candidates, func(c memberCandidate) bool {
			return match(c.row)
		})
	}

	for i := range candidates {
		if b := candidates[i].row.Birthday; b != nil {
			age := AgeOn(*b, today)
			candidates[i].age = &age
		}
	}

	if gender != nil {
		candidates = filterCandidates(candidates, func(c memberCandidate) bool {
			return c.row.Gender != nil && *c.row.Gender == *gender
		})
	}

	if term := strings.TrimSpace(q.SearchSubmittedRoute); term != "" {
		ids, err := s.members.UserIDsWithRouteMatch(ctx, gymID, term)
		if err != nil {
			return nil, wrapRepoError(err)
		}
		matched := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			matched[id] = struct{}{}
		}
		candidates = filterCandidates(candidates, func(c memberCandidate) bool {
			_, ok := matched[c.row.UserID]
			return ok
		})
	}

	if hasAgeRange {
		candidates = filterCandidates(candidates, func(c memberCandidate) bool {
			return c.age != nil && *c.age >= ageLo && *c.age <= ageHi
		})
	}

	sortCandidates(candidates, q.OrderBy)

	if s.metrics != nil {
		s.metrics.MemberListResults.Observe(float64(len(candidates)))
	}

	pageItems, totalPages, ok := paginate(candidates, q.Page, q.PageSize)
	if !ok {
		return nil, &ServiceError{Code: constants.ErrCodeNotFound, Message: constants.MsgInvalidPage}
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}
	out := &responses.MemberPage{
		Count:      len(candidates),
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
		Results:    make([]responses.MemberListItem, 0, len(pageItems)),
	}
	for _, c := range pageItems {
		out.Results = append(out.Results, toMemberListItem(c))
	}

	logging.Debug("Member list built",
		"gym_id", gymID,
		"base", len(rows),
		"matched", len(candidates),
	)
	return out, nil
}

func toMemberListItem(c memberCandidate) responses.MemberListItem {
	item := responses.MemberListItem{
		ID:           c.row.UserID,
		FullName:     c.row.FullName,
		Email:        c.row.Email,
		UserAvatar:   c.row.UserAvatar,
		Gender:       c.row.Gender,
		Bouldering:   c.row.Bouldering,
		TopRope:      c.row.TopRope,
		LeadClimbing: c.row.LeadClimbing,
		Age:          c.age,
		Submitted:    c.submitted,
		LastUpdated:  responses.NewTimestamp(c.lastUpdated),
	}
	if c.row.Birthday != nil {
		b := c.row.Birthday.Format("2006-01-02")
		item.Birthday = &b
	}
	return item
}

// TotalMemberCount returns the gym's member total and the week-over-week change in joins
func (s *MemberListService) TotalMemberCount(ctx context.Context, gymCtx GymContext) (*responses.MemberCount, error) {
	w := newWeekWindow(s.now(), gymCtx.OwnerCreatedAt())
	wc, err := s.members.MemberWeeklyCount(ctx, gymCtx.GymID(), w.from, w.mid)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return &responses.MemberCount{
		TotalUserCount:    wc.Total,
		LastWeekUserCount: w.delta(wc),
	}, nil
}

// BlockMember removes a member from the gym and bars them from rejoining
func (s *MemberListService) BlockMember(ctx context.Context, gymCtx GymContext, userID uint) error {
	if userID == gymCtx.OwnerUserID() || userID == gymCtx.ActorUserID() {
		return validationError("user_id", "you cannot block yourself or the gym owner")
	}
	if err := s.gyms.BlockMember(ctx, gymCtx.GymID(), userID); err != nil {
		return wrapRepoError(err)
	}
	logging.Info("Member blocked",
		"gym_id", gymCtx.GymID(),
		"user_id", userID,
		"by", gymCtx.ActorUserID(),
	)
	return nil
}

// MemberProfile returns one member's profile trimmed to what the gym's plan allows
func (s *MemberListService) MemberProfile(ctx context.Context, gymCtx GymContext, userID uint) (*responses.MemberProfile, error) {
	level, err := s.access.UserProfileAccess(ctx, gymCtx)
	if err != nil {
		return nil, err
	}

	ok, err := s.members.IsMember(ctx, gymCtx.GymID(), userID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !ok {
		return nil, newServiceError(constants.ErrCodeNotFound, nil)
	}

	user, err := s.members.Profile(ctx, userID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	out := &responses.MemberProfile{
		AccessLevel: level,
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		CreatedAt:   responses.Timestamp{Time: user.CreatedAt},
	}
	if user.Details != nil {
		out.UserAvatar = user.Details.UserAvatar
	}
	if b := user.Biometric; b != nil && b.Birthday != nil {
		age := AgeOn(*b.Birthday, startOfDay(s.now()))
		out.Age = &age
	}

	if (level == ProfileAccessFull || level == ProfileAccessSignUpInfo) && user.Preference != nil {
		p := user.Preference
		out.SignUpInfo = &responses.MemberSignUpInfo{
			PreferClimbing: p.PreferClimbing,
			Bouldering:     p.Bouldering,
			TopRope:        p.TopRope,
			LeadClimbing:   p.LeadClimbing,
		}
	}
	if (level == ProfileAccessFull || level == ProfileAccessBiometric) && user.Biometric != nil {
		b := user.Biometric
		bio := &responses.MemberBiometric{
			Gender:   b.Gender,
			Height:   b.Height,
			Wingspan: b.Wingspan,
			ApeIndex: b.ApeIndex,
			Weight:   b.Weight,
			ShoeSize: b.ShoeSize,
			HandSize: b.HandSize,
		}
		if b.Birthday != nil {
			bd := b.Birthday.Format("2006-01-02")
			bio.Birthday = &bd
		}
		out.Biometric = bio
	}
	return out, nil
}

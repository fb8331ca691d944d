package services

import (
	"context"
	"fmt"
	"time"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

type dashboardStore interface {
	WallCounts(ctx context.Context, gymID uint, from, mid time.Time) (repositories.WeeklyCount, error)
	FeedbackCounts(ctx context.Context, gymID uint, progresses []int, from, mid time.Time) (repositories.WeeklyCount, error)
	WallVisitCounts(ctx context.Context, gymID uint, from, mid time.Time) (repositories.WeeklyCount, error)
	RouteTypeCounts(ctx context.Context, gymID uint) (map[uint]int64, int64, error)
	GradeTypes(ctx context.Context, gradingSystem, subCategory int) ([]gormModels.GradeType, error)
	RouteGradeCounts(ctx context.Context, gymID uint) (map[uint]int64, error)
	GradeVotes(ctx context.Context, gymID, routeID uint) (map[int]int64, error)
	GymVisitCounts(ctx context.Context, gymID, userID uint, lastWeek, thisWeek time.Time) (repositories.WeeklyCount, error)
}

type dashboardMembers interface {
	BaseMembers(ctx context.Context, gymID uint) ([]repositories.MemberRow, error)
	MemberWeeklyCount(ctx context.Context, gymID uint, from, mid time.Time) (repositories.WeeklyCount, error)
	LevelCounts(ctx context.Context, gymID uint, gradingColumn, grading, levelColumn string) ([]repositories.PreferenceLevel, error)
	IsMember(ctx context.Context, gymID, userID uint) (bool, error)
}

type routeTypeLister interface {
	RouteTypes(ctx context.Context, gymID uint) ([]gormModels.RouteType, error)
}

type DashboardService struct {
	store      dashboardStore
	members    dashboardMembers
	routeTypes routeTypeLister
	cache      common.CacheInterface
	cacheTTL   time.Duration
	metrics    *metrics.MetricsRegistry
	now        func() time.Time
}

func NewDashboardService(
	store dashboardStore,
	members dashboardMembers,
	routeTypes routeTypeLister,
	cache common.CacheInterface,
	cacheTTL time.Duration,
	m *metrics.MetricsRegistry,
) *DashboardService {
	return &DashboardService{
		store:      store,
		members:    members,
		routeTypes: routeTypes,
		cache:      cache,
		cacheTTL:   cacheTTL,
		metrics:    m,
		now:        time.Now,
	}
}

var allProgresses = []int{
	constants.ProgressProjecting,
	constants.ProgressRedPoint,
	constants.ProgressFlash,
	constants.ProgressOnSight,
}

func (s *DashboardService) observe(section string, start time.Time) {
	if s.metrics != nil {
		s.metrics.DashboardBuildDuration.WithLabelValues(section).Observe(time.Since(start).Seconds())
	}
}

// Summary builds the four weekly counters and the grade graph concurrently.
func (s *DashboardService) Summary(ctx context.Context, gymCtx GymContext) (*responses.DashboardSummary, error) {
	defer s.observe("summary", time.Now())

	gymID := gymCtx.GymID()
	w := newWeekWindow(s.now(), gymCtx.OwnerCreatedAt())

	var walls, attempts, members, visits repositories.WeeklyCount
	var graph responses.RopeBoulderingGraph

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		walls, err = s.store.WallCounts(gctx, gymID, w.from, w.mid)
		return err
	})
	g.Go(func() (err error) {
		attempts, err = s.store.FeedbackCounts(gctx, gymID, allProgresses, w.from, w.mid)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.members.MemberWeeklyCount(gctx, gymID, w.from, w.mid)
		return err
	})
	g.Go(func() (err error) {
		visits, err = s.store.WallVisitCounts(gctx, gymID, w.from, w.mid)
		return err
	})
	g.Go(func() (err error) {
		graph, err = s.ropeBoulderingGraph(gctx, gymCtx.Gym())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapRepoError(err)
	}

	counter := func(wc repositories.WeeklyCount) responses.WeeklyCounter {
		return responses.WeeklyCounter{Count: wc.Total, LastWeekCount: w.delta(wc)}
	}
	return &responses.DashboardSummary{
		WallCount:           counter(walls),
		RouteAttemptCount:   counter(attempts),
		TotalMemberCount:    counter(members),
		TotalWallVisit:      counter(visits),
		RopeBoulderingGraph: graph,
	}, nil
}

func (s *DashboardService) gradeTypes(ctx context.Context, gradingSystem, subCategory int) ([]gormModels.GradeType, error) {
	key := fmt.Sprintf("%s%d_%d", constants.CachePrefixGradeTypes, gradingSystem, subCategory)
	if s.cache == nil {
		return s.store.GradeTypes(ctx, gradingSystem, subCategory)
	}
	return common.GetOrLoad(s.cache, s.metrics, string(constants.CachePrefixGradeTypes), key, s.cacheTTL,
		func() ([]gormModels.GradeType, error) {
			return s.store.GradeTypes(ctx, gradingSystem, subCategory)
		})
}

// ropeBoulderingGraph counts routes per grade for each grading system the gym uses.
// A system the gym does not use reports total -1 and no data.
func (s *DashboardService) ropeBoulderingGraph(ctx context.Context, gym *gormModels.Gym) (responses.RopeBoulderingGraph, error) {
	graph := responses.RopeBoulderingGraph{TotalRopeClimbingCount: -1, TotalBoulderingCount: -1}
	if gym.RopeClimbing == nil && gym.Bouldering == nil {
		return graph, nil
	}

	counts, err := s.store.RouteGradeCounts(ctx, gym.ID)
	if err != nil {
		return graph, err
	}

	build := func(gradingSystem, subCategory int) ([]responses.GradeCount, int64, error) {
		grades, err := s.gradeTypes(ctx, gradingSystem, subCategory)
		if err != nil {
			return nil, 0, err
		}
		data := make([]responses.GradeCount, 0, len(grades))
		var total int64
		for _, gt := range grades {
			c := counts[gt.ID]
			data = append(data, responses.GradeCount{GradeID: gt.ID, Value: gt.SubCategoryValue, Count: c})
			total += c
		}
		return data, total, nil
	}

	if gym.RopeClimbing != nil {
		graph.RopeClimbingData, graph.TotalRopeClimbingCount, err = build(constants.GradingSystemRope, *gym.RopeClimbing)
		if err != nil {
			return graph, err
		}
	}
	if gym.Bouldering != nil {
		graph.BoulderingData, graph.TotalBoulderingCount, err = build(constants.GradingSystemBouldering, *gym.Bouldering)
		if err != nil {
			return graph, err
		}
	}
	return graph, nil
}

// Details builds feedback progress counters, route type shares and member ranges.
func (s *DashboardService) Details(ctx context.Context, gymCtx GymContext) (*responses.DashboardDetails, error) {
	defer s.observe("details", time.Now())

	gymID := gymCtx.GymID()
	w := newWeekWindow(s.now(), gymCtx.OwnerCreatedAt())

	var (
		progress   [4]repositories.WeeklyCount
		rfo        repositories.WeeklyCount
		routeTypes responses.RouteTypeCount
		ranges     responses.RangeData
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range allProgresses {
		g.Go(func() (err error) {
			progress[i], err = s.store.FeedbackCounts(gctx, gymID, []int{p}, w.from, w.mid)
			return err
		})
	}
	g.Go(func() (err error) {
		rfo, err = s.store.FeedbackCounts(gctx, gymID, allProgresses[1:], w.from, w.mid)
		return err
	})
	g.Go(func() (err error) {
		routeTypes, err = s.routeTypeCount(gctx, gymID)
		return err
	})
	g.Go(func() (err error) {
		ranges, err = s.rangeData(gctx, gymCtx.Gym())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapRepoError(err)
	}

	return &responses.DashboardDetails{
		RangeData: ranges,
		UserRouteFeedback: responses.FeedbackCounts{
			ProjectingCount:         progress[constants.ProgressProjecting].Total,
			LastWeekProjectingCount: w.delta(progress[constants.ProgressProjecting]),
			RedPointCount:           progress[constants.ProgressRedPoint].Total,
			LastWeekRedPointCount:   w.delta(progress[constants.ProgressRedPoint]),
			FlashCount:              progress[constants.ProgressFlash].Total,
			LastWeekFlashCount:      w.delta(progress[constants.ProgressFlash]),
			OnSightCount:            progress[constants.ProgressOnSight].Total,
			LastWeekOnSightCount:    w.delta(progress[constants.ProgressOnSight]),
			TotalRFOCount:           rfo.Total,
			LastWeekTotalRFOCount:   w.delta(rfo),
		},
		RouteTypeCount: routeTypes,
	}, nil
}

func (s *DashboardService) routeTypeCount(ctx context.Context, gymID uint) (responses.RouteTypeCount, error) {
	types, err := s.routeTypes.RouteTypes(ctx, gymID)
	if err != nil {
		return responses.RouteTypeCount{}, err
	}
	counts, total, err := s.store.RouteTypeCounts(ctx, gymID)
	if err != nil {
		return responses.RouteTypeCount{}, err
	}

	out := responses.RouteTypeCount{
		TotalRouteCount: total,
		RouteTypes:      make([]responses.RouteTypeShare, 0, len(types)),
	}
	for _, rt := range types {
		c := counts[rt.ID]
		out.RouteTypes = append(out.RouteTypes, responses.RouteTypeShare{
			RouteTypeID:             rt.ID,
			RouteTypeName:           rt.Name,
			SpecificRouteCount:      c,
			SpecificRoutePercentage: sharePercent(c, total),
		})
	}
	return out, nil
}

// sharePercent is part/total as a percentage rounded to 2 decimals, 0 for an empty total
func sharePercent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(total))
}

func (s *DashboardService) rangeData(ctx context.Context, gym *gormModels.Gym) (responses.RangeData, error) {
	rows, err := s.members.BaseMembers(ctx, gym.ID)
	if err != nil {
		return responses.RangeData{}, err
	}
	var heights, wingspans []float64
	for _, r := range rows {
		if r.Height != nil {
			heights = append(heights, *r.Height)
		}
		if r.Wingspan != nil {
			wingspans = append(wingspans, *r.Wingspan)
		}
	}

	levels, err := s.climbingLevelRange(ctx, gym)
	if err != nil {
		return responses.RangeData{}, err
	}
	return responses.RangeData{
		ClimbingLevelRange: levels,
		HeightRange:        MetreBuckets(heights),
		WingspanRange:      MetreBuckets(wingspans),
	}, nil
}

func (s *DashboardService) climbingLevelRange(ctx context.Context, gym *gormModels.Gym) (responses.ClimbingLevelRange, error) {
	var out responses.ClimbingLevelRange
	toLevels := func(in []repositories.PreferenceLevel) []responses.LevelCount {
		levels := make([]responses.LevelCount, 0, len(in))
		for _, l := range in {
			levels = append(levels, responses.LevelCount{Value: l.Value, Count: l.Count})
		}
		return levels
	}

	if gym.RopeClimbing != nil {
		if name, ok := constants.GradingNames[*gym.RopeClimbing]; ok {
			topRope, err := s.members.LevelCounts(ctx, gym.ID, "rope_grading", name, "top_rope")
			if err != nil {
				return out, err
			}
			lead, err := s.members.LevelCounts(ctx, gym.ID, "rope_grading", name, "lead_climbing")
			if err != nil {
				return out, err
			}
			out.RopeClimbing = &responses.RopeLevelRange{
				GradingName:  name,
				TopRope:      toLevels(topRope),
				LeadClimbing: toLevels(lead),
			}
		}
	}
	if gym.Bouldering != nil {
		if name, ok := constants.GradingNames[*gym.Bouldering]; ok {
			levels, err := s.members.LevelCounts(ctx, gym.ID, "bouldering_grading", name, "bouldering")
			if err != nil {
				return out, err
			}
			out.Bouldering = &responses.BoulderingLevelRange{
				GradingName: name,
				LevelData:   toLevels(levels),
			}
		}
	}
	return out, nil
}

// MetreBuckets converts inch measurements to metres and counts them into the
// five dashboard ranges. Values at exactly 1m or outside (0, 5] are not counted.
func MetreBuckets(inches []float64) []responses.RangeBucket {
	buckets := []responses.RangeBucket{
		{Key: "0-1"},
		{Key: "1.1-2"},
		{Key: "2.1-3"},
		{Key: "3.1-4"},
		{Key: "4.1-5"},
	}
	for _, in := range inches {
		m := in * constants.InchToMeter
		switch {
		case m > 0 && m < 1:
			buckets[0].Value++
		case m > 1 && m <= 2:
			buckets[1].Value++
		case m > 2 && m <= 3:
			buckets[2].Value++
		case m > 3 && m <= 4:
			buckets[3].Value++
		case m > 4 && m <= 5:
			buckets[4].Value++
		}
	}
	return buckets
}

// GradeVoteDistribution returns each vote's share of all votes, keyed by vote
// name. No votes yields an empty map.
func GradeVoteDistribution(votes map[int]int64) map[string]float64 {
	var total int64
	for _, c := range votes {
		total += c
	}
	out := make(map[string]float64)
	if total == 0 {
		return out
	}
	for grade, name := range constants.CommunityGradeNames {
		out[name] = sharePercent(votes[grade], total)
	}
	return out
}

// RouteGradeVotes is the community grade distribution for one of the gym's routes
func (s *DashboardService) RouteGradeVotes(ctx context.Context, gymCtx GymContext, routeID uint) (map[string]float64, error) {
	votes, err := s.store.GradeVotes(ctx, gymCtx.GymID(), routeID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return GradeVoteDistribution(votes), nil
}

// GymVisits counts a member's visits to the gym this week and last week.
// Users who are not members of the gym are reported as not found.
func (s *DashboardService) GymVisits(ctx context.Context, gymCtx GymContext, userID uint) (*responses.GymVisits, error) {
	ok, err := s.members.IsMember(ctx, gymCtx.GymID(), userID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !ok {
		return nil, newServiceError(constants.ErrCodeNotFound, nil)
	}

	today := startOfDay(s.now())
	thisWeek := today.AddDate(0, 0, -7)
	lastWeek := today.AddDate(0, 0, -14)

	wc, err := s.store.GymVisitCounts(ctx, gymCtx.GymID(), userID, lastWeek, thisWeek)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return &responses.GymVisits{ThisWeek: wc.ThisWeek, LastWeek: wc.LastWeek}, nil
}

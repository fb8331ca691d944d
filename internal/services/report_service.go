package services

import (
	"context"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/models/dtos/responses"

	"golang.org/x/sync/errgroup"
)

type revenueSource interface {
	RevenueByMonth(ctx context.Context) ([]repositories.RevenueRow, error)
	ActiveSubscriptionCount(ctx context.Context) (int64, error)
}

// ReportService builds the admin revenue report
type ReportService struct {
	reports revenueSource
}

func NewReportService(reports revenueSource) *ReportService {
	return &ReportService{reports: reports}
}

func (s *ReportService) Revenue(ctx context.Context) (*responses.RevenueReport, error) {
	var (
		rows   []repositories.RevenueRow
		active int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.reports.RevenueByMonth(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.reports.ActiveSubscriptionCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, newServiceError(constants.ErrCodeInternal, err)
	}

	months := make([]responses.RevenueMonth, 0, len(rows))
	for _, r := range rows {
		months = append(months, responses.RevenueMonth{
			Month:        r.Month,
			Transactions: r.Transactions,
			TotalAmount:  round2(r.TotalAmount),
		})
	}
	return &responses.RevenueReport{ActiveSubscriptions: active, Months: months}, nil
}

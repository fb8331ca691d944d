package services

import (
	"context"
	"errors"
	"testing"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRevenueSource struct {
	rows     []repositories.RevenueRow
	active   int64
	countErr error
}

func (f *fakeRevenueSource) RevenueByMonth(context.Context) ([]repositories.RevenueRow, error) {
	return f.rows, nil
}

func (f *fakeRevenueSource) ActiveSubscriptionCount(context.Context) (int64, error) {
	return f.active, f.countErr
}

func TestReportService_Revenue(t *testing.T) {
	svc := NewReportService(&fakeRevenueSource{
		rows: []repositories.RevenueRow{
			{Month: "2024-05", Transactions: 3, TotalAmount: 147.004},
			{Month: "2024-06", Transactions: 1, TotalAmount: 49},
		},
		active: 4,
	})

	report, err := svc.Revenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.ActiveSubscriptions)
	require.Len(t, report.Months, 2)
	assert.Equal(t, "2024-05", report.Months[0].Month)
	assert.Equal(t, 147.0, report.Months[0].TotalAmount)
	assert.Equal(t, int64(1), report.Months[1].Transactions)
}

func TestReportService_RevenueFailure(t *testing.T) {
	svc := NewReportService(&fakeRevenueSource{countErr: errors.New("timeout")})

	_, err := svc.Revenue(context.Background())
	assert.Equal(t, constants.ErrCodeInternal, ErrorCode(err))
}

package repositories

import (
	"context"
	"fmt"

	"climbing-gym/belay/internal/constants"

	"github.com/jmoiron/sqlx"
)

// RevenueRow is one month of successful subscription debits
type RevenueRow struct {
	Month        string  `db:"month" json:"month"`
	Transactions int64   `db:"transactions" json:"transactions"`
	TotalAmount  float64 `db:"total_amount" json:"total_amount"`
}

// ReportRepository runs raw reporting SQL through sqlx
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) RevenueByMonth(ctx context.Context) ([]RevenueRow, error) {
	rows := []RevenueRow{}
	if err := r.db.SelectContext(ctx, &rows, constants.RevenueByMonth, constants.TransactionDebit, constants.PaymentSuccess); err != nil {
		return nil, fmt.Errorf("failed to load revenue report: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) ActiveSubscriptionCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.ActiveSubscriptionCount); err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return count, nil
}

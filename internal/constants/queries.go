package constants

const (
	// RevenueByMonth sums successful debits per calendar month for the admin report
	RevenueByMonth = `
	SELECT to_char(date_trunc('month', time), 'YYYY-MM') AS month,
	       COUNT(*) AS transactions,
	       COALESCE(SUM(total_amount), 0) AS total_amount
	FROM transactions
	WHERE type = $1 AND payment_status = $2 AND is_deleted = false
	GROUP BY 1
	ORDER BY 1 DESC
	`

	ActiveSubscriptionCount = `
	SELECT COUNT(*) FROM user_subscriptions WHERE is_subscribed = true AND is_deleted = false
	`
)

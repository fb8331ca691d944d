package api

import (
	"context"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/models/dtos/responses"
)

type revenueReporter interface {
	Revenue(ctx context.Context) (*responses.RevenueReport, error)
}

// RevenueReportHandler handles GET /api/v1/admin/reports/revenue
func RevenueReportHandler(svc revenueReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.Revenue(r.Context())
		if err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, out)
	}
}

package hms

import (
	"context"
	"net/http"
	"net/url"
)

// DashboardService returns the hospital-wide aggregate.
type DashboardService struct{ c *Client }

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	return call[*Dashboard](ctx, s.c, http.MethodGet, "/dashboard", nil, nil)
}

// ReportService returns date-ranged reports. Dates are YYYY-MM-DD.
type ReportService struct{ c *Client }

func (s *ReportService) Financial(ctx context.Context, startDate, endDate string) (Report, error) {
	return call[Report](ctx, s.c, http.MethodGet, "/reports/financial", dateRange(startDate, endDate), nil)
}

func (s *ReportService) Patients(ctx context.Context, startDate, endDate string) (Report, error) {
	return call[Report](ctx, s.c, http.MethodGet, "/reports/patients", dateRange(startDate, endDate), nil)
}

func dateRange(start, end string) url.Values {
	return url.Values{"startDate": {start}, "endDate": {end}}
}

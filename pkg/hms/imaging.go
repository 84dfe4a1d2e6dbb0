package hms

import (
	"context"
	"net/http"
)

// ImagingService covers radiology orders.
type ImagingService struct{ c *Client }

func (s *ImagingService) List(ctx context.Context, page int) (*Page[ImagingOrder], error) {
	return call[*Page[ImagingOrder]](ctx, s.c, http.MethodGet, "/imaging/orders", pageQuery(page, 0), nil)
}

func (s *ImagingService) ByVisit(ctx context.Context, visitID int64) ([]ImagingOrder, error) {
	return call[[]ImagingOrder](ctx, s.c, http.MethodGet, pathf("/imaging/orders/visit/%s", visitID), nil, nil)
}

func (s *ImagingService) ByStatus(ctx context.Context, status LabOrderStatus, page int) (*Page[ImagingOrder], error) {
	return call[*Page[ImagingOrder]](ctx, s.c, http.MethodGet, pathf("/imaging/orders/status/%s", status), pageQuery(page, 0), nil)
}

func (s *ImagingService) Create(ctx context.Context, o *ImagingOrder) (*ImagingOrder, error) {
	return call[*ImagingOrder](ctx, s.c, http.MethodPost, "/imaging/orders", nil, o)
}

func (s *ImagingService) Complete(ctx context.Context, id int64, report *ImagingReport) (*ImagingOrder, error) {
	return call[*ImagingOrder](ctx, s.c, http.MethodPut, pathf("/imaging/orders/%s/complete", id), nil, report)
}

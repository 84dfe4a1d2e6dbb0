package hms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LabService covers the lab test catalogue and the order workflow
// ORDERED → SAMPLE_COLLECTED → PROCESSING → COMPLETED → VERIFIED → RELEASED.
type LabService struct{ c *Client }

func (s *LabService) Tests(ctx context.Context) ([]LabTest, error) {
	return call[[]LabTest](ctx, s.c, http.MethodGet, "/lab/tests", nil, nil)
}

func (s *LabService) CreateTest(ctx context.Context, t *LabTest) (*LabTest, error) {
	return call[*LabTest](ctx, s.c, http.MethodPost, "/lab/tests", nil, t)
}

func (s *LabService) UpdateTest(ctx context.Context, id int64, t *LabTest) (*LabTest, error) {
	return call[*LabTest](ctx, s.c, http.MethodPut, pathf("/lab/tests/%s", id), nil, t)
}

func (s *LabService) CreateOrder(ctx context.Context, visitID, testID, orderedByID int64) (*LabOrder, error) {
	return call[*LabOrder](ctx, s.c, http.MethodPost, "/lab/orders", nil, map[string]int64{
		"visitId":     visitID,
		"testId":      testID,
		"orderedById": orderedByID,
	})
}

func (s *LabService) OrdersByVisit(ctx context.Context, visitID int64) ([]LabOrder, error) {
	return call[[]LabOrder](ctx, s.c, http.MethodGet, pathf("/lab/orders/visit/%s", visitID), nil, nil)
}

func (s *LabService) OrdersByStatus(ctx context.Context, status LabOrderStatus, page int) (*Page[LabOrder], error) {
	return call[*Page[LabOrder]](ctx, s.c, http.MethodGet, pathf("/lab/orders/status/%s", status), pageQuery(page, 0), nil)
}

func (s *LabService) CollectSample(ctx context.Context, id int64) (*LabOrder, error) {
	return call[*LabOrder](ctx, s.c, http.MethodPut, pathf("/lab/orders/%s/collect-sample", id), nil, nil)
}

func (s *LabService) Process(ctx context.Context, id int64, result *LabResult) (*LabOrder, error) {
	return call[*LabOrder](ctx, s.c, http.MethodPut, pathf("/lab/orders/%s/process", id), nil, result)
}

func (s *LabService) Verify(ctx context.Context, id, verifiedByID int64) (*LabOrder, error) {
	q := url.Values{"verifiedById": {fmt.Sprint(verifiedByID)}}
	return call[*LabOrder](ctx, s.c, http.MethodPut, pathf("/lab/orders/%s/verify", id), q, nil)
}

func (s *LabService) Release(ctx context.Context, id int64) (*LabOrder, error) {
	return call[*LabOrder](ctx, s.c, http.MethodPut, pathf("/lab/orders/%s/release", id), nil, nil)
}

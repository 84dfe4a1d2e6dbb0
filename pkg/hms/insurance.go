package hms

import (
	"context"
	"net/http"
)

// InsuranceService covers insurers and claims.
type InsuranceService struct{ c *Client }

func (s *InsuranceService) Companies(ctx context.Context) ([]InsuranceCompany, error) {
	return call[[]InsuranceCompany](ctx, s.c, http.MethodGet, "/insurance/companies", nil, nil)
}

func (s *InsuranceService) CreateCompany(ctx context.Context, ic *InsuranceCompany) (*InsuranceCompany, error) {
	return call[*InsuranceCompany](ctx, s.c, http.MethodPost, "/insurance/companies", nil, ic)
}

func (s *InsuranceService) UpdateCompany(ctx context.Context, id int64, ic *InsuranceCompany) (*InsuranceCompany, error) {
	return call[*InsuranceCompany](ctx, s.c, http.MethodPut, pathf("/insurance/companies/%s", id), nil, ic)
}

func (s *InsuranceService) Claims(ctx context.Context, page int) (*Page[InsuranceClaim], error) {
	return call[*Page[InsuranceClaim]](ctx, s.c, http.MethodGet, "/insurance/claims", pageQuery(page, 0), nil)
}

func (s *InsuranceService) CreateClaim(ctx context.Context, claim *InsuranceClaim) (*InsuranceClaim, error) {
	return call[*InsuranceClaim](ctx, s.c, http.MethodPost, "/insurance/claims", nil, claim)
}

// UpdateClaimStatus changes a claim's adjudication status. Legality of the
// transition is decided by the backend.
func (s *InsuranceService) UpdateClaimStatus(ctx context.Context, id int64, update *ClaimStatusUpdate) (*InsuranceClaim, error) {
	return call[*InsuranceClaim](ctx, s.c, http.MethodPut, pathf("/insurance/claims/%s/status", id), nil, update)
}

package hms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// PharmacyService covers drug inventory and prescriptions.
type PharmacyService struct{ c *Client }

func (s *PharmacyService) Drugs(ctx context.Context, page int) (*Page[Drug], error) {
	return call[*Page[Drug]](ctx, s.c, http.MethodGet, "/pharmacy/drugs", pageQuery(page, 0), nil)
}

func (s *PharmacyService) Drug(ctx context.Context, id int64) (*Drug, error) {
	return call[*Drug](ctx, s.c, http.MethodGet, pathf("/pharmacy/drugs/%s", id), nil, nil)
}

func (s *PharmacyService) SearchDrugs(ctx context.Context, q string, page int) (*Page[Drug], error) {
	query := pageQuery(page, 0)
	query.Set("q", q)
	return call[*Page[Drug]](ctx, s.c, http.MethodGet, "/pharmacy/drugs/search", query, nil)
}

func (s *PharmacyService) CreateDrug(ctx context.Context, d *Drug) (*Drug, error) {
	return call[*Drug](ctx, s.c, http.MethodPost, "/pharmacy/drugs", nil, d)
}

func (s *PharmacyService) UpdateDrug(ctx context.Context, id int64, d *Drug) (*Drug, error) {
	return call[*Drug](ctx, s.c, http.MethodPut, pathf("/pharmacy/drugs/%s", id), nil, d)
}

// LowStock lists drugs at or below their reorder level.
func (s *PharmacyService) LowStock(ctx context.Context) ([]Drug, error) {
	return call[[]Drug](ctx, s.c, http.MethodGet, "/pharmacy/drugs/low-stock", nil, nil)
}

// Expiring lists drugs close to their expiry date.
func (s *PharmacyService) Expiring(ctx context.Context) ([]Drug, error) {
	return call[[]Drug](ctx, s.c, http.MethodGet, "/pharmacy/drugs/expiring", nil, nil)
}

func (s *PharmacyService) CreatePrescription(ctx context.Context, p *Prescription) (*Prescription, error) {
	return call[*Prescription](ctx, s.c, http.MethodPost, "/pharmacy/prescriptions", nil, p)
}

func (s *PharmacyService) PendingPrescriptions(ctx context.Context) ([]Prescription, error) {
	return call[[]Prescription](ctx, s.c, http.MethodGet, "/pharmacy/prescriptions/pending", nil, nil)
}

func (s *PharmacyService) VisitPrescriptions(ctx context.Context, visitID int64) ([]Prescription, error) {
	return call[[]Prescription](ctx, s.c, http.MethodGet, pathf("/pharmacy/prescriptions/visit/%s", visitID), nil, nil)
}

// Dispense marks a prescription dispensed by pharmacistID. Stock is
// decremented server-side.
func (s *PharmacyService) Dispense(ctx context.Context, id, pharmacistID int64) (*Prescription, error) {
	q := url.Values{"pharmacistId": {fmt.Sprint(pharmacistID)}}
	return call[*Prescription](ctx, s.c, http.MethodPost, pathf("/pharmacy/prescriptions/%s/dispense", id), q, nil)
}

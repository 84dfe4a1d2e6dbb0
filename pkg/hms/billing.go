package hms

import (
	"context"
	"net/http"
)

// BillingService covers invoices, invoice items and payments. Totals are
// computed by the backend.
type BillingService struct{ c *Client }

func (s *BillingService) List(ctx context.Context, page int) (*Page[Billing], error) {
	return call[*Page[Billing]](ctx, s.c, http.MethodGet, "/billing", pageQuery(page, 0), nil)
}

func (s *BillingService) Get(ctx context.Context, id int64) (*Billing, error) {
	return call[*Billing](ctx, s.c, http.MethodGet, pathf("/billing/%s", id), nil, nil)
}

func (s *BillingService) ByPatient(ctx context.Context, patientID int64, page int) (*Page[Billing], error) {
	return call[*Page[Billing]](ctx, s.c, http.MethodGet, pathf("/billing/patient/%s", patientID), pageQuery(page, 0), nil)
}

func (s *BillingService) ByStatus(ctx context.Context, status PaymentStatus, page int) (*Page[Billing], error) {
	return call[*Page[Billing]](ctx, s.c, http.MethodGet, pathf("/billing/status/%s", status), pageQuery(page, 0), nil)
}

func (s *BillingService) Create(ctx context.Context, b *Billing) (*Billing, error) {
	return call[*Billing](ctx, s.c, http.MethodPost, "/billing", nil, b)
}

// AddItem appends a line item and returns the recomputed invoice.
func (s *BillingService) AddItem(ctx context.Context, billingID int64, item *BillingItem) (*Billing, error) {
	return call[*Billing](ctx, s.c, http.MethodPost, pathf("/billing/%s/items", billingID), nil, item)
}

// ProcessPayment records a payment against payment.BillingID and returns
// the updated invoice.
func (s *BillingService) ProcessPayment(ctx context.Context, payment *Payment) (*Billing, error) {
	return call[*Billing](ctx, s.c, http.MethodPost, "/billing/payments", nil, payment)
}

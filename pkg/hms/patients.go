package hms

import (
	"context"
	"net/http"
)

// PatientService covers patient registration and lookup.
type PatientService struct{ c *Client }

// List returns one page of patients. size <= 0 uses DefaultPageSize.
func (s *PatientService) List(ctx context.Context, page, size int) (*Page[Patient], error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	return call[*Page[Patient]](ctx, s.c, http.MethodGet, "/patients", pageQuery(page, size), nil)
}

// Get fetches a patient by id.
func (s *PatientService) Get(ctx context.Context, id int64) (*Patient, error) {
	return call[*Patient](ctx, s.c, http.MethodGet, pathf("/patients/%s", id), nil, nil)
}

// GetByNumber fetches a patient by hospital patient number.
func (s *PatientService) GetByNumber(ctx context.Context, patientNo string) (*Patient, error) {
	return call[*Patient](ctx, s.c, http.MethodGet, pathf("/patients/by-no/%s", patientNo), nil, nil)
}

// Search runs a free-text patient search. One request is issued per call.
func (s *PatientService) Search(ctx context.Context, q string, page int) (*Page[Patient], error) {
	query := pageQuery(page, 0)
	query.Set("q", q)
	return call[*Page[Patient]](ctx, s.c, http.MethodGet, "/patients/search", query, nil)
}

// Create registers a patient. The backend assigns the patient number.
func (s *PatientService) Create(ctx context.Context, p *Patient) (*Patient, error) {
	return call[*Patient](ctx, s.c, http.MethodPost, "/patients", nil, p)
}

// Update replaces a patient's editable fields.
func (s *PatientService) Update(ctx context.Context, id int64, p *Patient) (*Patient, error) {
	return call[*Patient](ctx, s.c, http.MethodPut, pathf("/patients/%s", id), nil, p)
}

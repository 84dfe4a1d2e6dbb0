package hms

import (
	"context"
	"net/http"
)

// VisitService covers clinical visits (consultations).
type VisitService struct{ c *Client }

func (s *VisitService) List(ctx context.Context, page int) (*Page[Visit], error) {
	return call[*Page[Visit]](ctx, s.c, http.MethodGet, "/visits", pageQuery(page, 0), nil)
}

func (s *VisitService) Get(ctx context.Context, id int64) (*Visit, error) {
	return call[*Visit](ctx, s.c, http.MethodGet, pathf("/visits/%s", id), nil, nil)
}

func (s *VisitService) ListByPatient(ctx context.Context, patientID int64, page int) (*Page[Visit], error) {
	return call[*Page[Visit]](ctx, s.c, http.MethodGet, pathf("/visits/patient/%s", patientID), pageQuery(page, 0), nil)
}

// DoctorQueue returns the open visits assigned to a doctor. It is not paged.
func (s *VisitService) DoctorQueue(ctx context.Context, doctorID int64) ([]Visit, error) {
	return call[[]Visit](ctx, s.c, http.MethodGet, pathf("/visits/doctor/%s/queue", doctorID), nil, nil)
}

func (s *VisitService) Create(ctx context.Context, v *Visit) (*Visit, error) {
	return call[*Visit](ctx, s.c, http.MethodPost, "/visits", nil, v)
}

func (s *VisitService) Update(ctx context.Context, id int64, v *Visit) (*Visit, error) {
	return call[*Visit](ctx, s.c, http.MethodPut, pathf("/visits/%s", id), nil, v)
}

// Complete closes a visit.
func (s *VisitService) Complete(ctx context.Context, id int64) (*Visit, error) {
	return call[*Visit](ctx, s.c, http.MethodPut, pathf("/visits/%s/complete", id), nil, nil)
}

package hms

import (
	"context"
	"net/http"
	"net/url"
)

// AppointmentService covers scheduling.
type AppointmentService struct{ c *Client }

func (s *AppointmentService) List(ctx context.Context, page int) (*Page[Appointment], error) {
	return call[*Page[Appointment]](ctx, s.c, http.MethodGet, "/appointments", pageQuery(page, 0), nil)
}

func (s *AppointmentService) Get(ctx context.Context, id int64) (*Appointment, error) {
	return call[*Appointment](ctx, s.c, http.MethodGet, pathf("/appointments/%s", id), nil, nil)
}

// ListByDate lists appointments on a date (YYYY-MM-DD).
func (s *AppointmentService) ListByDate(ctx context.Context, date string, page int) (*Page[Appointment], error) {
	return call[*Page[Appointment]](ctx, s.c, http.MethodGet, pathf("/appointments/date/%s", date), pageQuery(page, 0), nil)
}

func (s *AppointmentService) DoctorAppointments(ctx context.Context, doctorID int64, date string) ([]Appointment, error) {
	return call[[]Appointment](ctx, s.c, http.MethodGet, pathf("/appointments/doctor/%s/date/%s", doctorID, date), nil, nil)
}

func (s *AppointmentService) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	return call[*Appointment](ctx, s.c, http.MethodPost, "/appointments", nil, a)
}

// UpdateStatus moves an appointment to status. The status travels as a
// query parameter, not in the body.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id int64, status AppointmentStatus) (*Appointment, error) {
	q := url.Values{"status": {string(status)}}
	return call[*Appointment](ctx, s.c, http.MethodPut, pathf("/appointments/%s/status", id), q, nil)
}

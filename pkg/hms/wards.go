package hms

import (
	"context"
	"net/http"
)

// WardService covers wards, rooms, beds, admissions and nursing notes.
type WardService struct{ c *Client }

func (s *WardService) Wards(ctx context.Context) ([]Ward, error) {
	return call[[]Ward](ctx, s.c, http.MethodGet, "/wards", nil, nil)
}

func (s *WardService) CreateWard(ctx context.Context, w *Ward) (*Ward, error) {
	return call[*Ward](ctx, s.c, http.MethodPost, "/wards", nil, w)
}

func (s *WardService) UpdateWard(ctx context.Context, id int64, w *Ward) (*Ward, error) {
	return call[*Ward](ctx, s.c, http.MethodPut, pathf("/wards/%s", id), nil, w)
}

func (s *WardService) Rooms(ctx context.Context, wardID int64) ([]Room, error) {
	return call[[]Room](ctx, s.c, http.MethodGet, pathf("/wards/%s/rooms", wardID), nil, nil)
}

func (s *WardService) CreateRoom(ctx context.Context, r *Room) (*Room, error) {
	return call[*Room](ctx, s.c, http.MethodPost, "/wards/rooms", nil, r)
}

func (s *WardService) CreateBed(ctx context.Context, b *Bed) (*Bed, error) {
	return call[*Bed](ctx, s.c, http.MethodPost, "/wards/beds", nil, b)
}

func (s *WardService) AvailableBeds(ctx context.Context) ([]Bed, error) {
	return call[[]Bed](ctx, s.c, http.MethodGet, "/wards/beds/available", nil, nil)
}

func (s *WardService) Admit(ctx context.Context, a *Admission) (*Admission, error) {
	return call[*Admission](ctx, s.c, http.MethodPost, "/wards/admissions", nil, a)
}

func (s *WardService) Admissions(ctx context.Context, status AdmissionStatus, page int) (*Page[Admission], error) {
	return call[*Page[Admission]](ctx, s.c, http.MethodGet, pathf("/wards/admissions/status/%s", status), pageQuery(page, 0), nil)
}

func (s *WardService) Discharge(ctx context.Context, id int64, summary string) (*Admission, error) {
	return call[*Admission](ctx, s.c, http.MethodPut, pathf("/wards/admissions/%s/discharge", id), nil, map[string]string{
		"dischargeSummary": summary,
	})
}

func (s *WardService) AddNursingNote(ctx context.Context, n *NursingNote) (*NursingNote, error) {
	return call[*NursingNote](ctx, s.c, http.MethodPost, "/wards/nursing-notes", nil, n)
}

func (s *WardService) NursingNotes(ctx context.Context, admissionID int64) ([]NursingNote, error) {
	return call[[]NursingNote](ctx, s.c, http.MethodGet, pathf("/wards/admissions/%s/nursing-notes", admissionID), nil, nil)
}

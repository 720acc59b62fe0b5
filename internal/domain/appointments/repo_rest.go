package appointments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hms/portal/internal/platform/apiclient"
)

type appointmentRepoREST struct {
	api *apiclient.Client
}

// NewRepo returns a Repository backed by the hospital REST API.
func NewRepo(api *apiclient.Client) Repository {
	return &appointmentRepoREST{api: api}
}

func (r *appointmentRepoREST) list(ctx context.Context, path string) ([]Appointment, error) {
	var out []Appointment
	if err := r.api.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Appointment{}
	}
	return out, nil
}

func (r *appointmentRepoREST) List(ctx context.Context) ([]Appointment, error) {
	return r.list(ctx, "/appointments")
}

func (r *appointmentRepoREST) Get(ctx context.Context, id int) (*Appointment, error) {
	var a Appointment
	if err := r.api.Get(ctx, fmt.Sprintf("/appointments/%d", id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepoREST) Create(ctx context.Context, in *NewAppointment) (*Appointment, error) {
	var a Appointment
	if err := r.api.Post(ctx, "/appointments", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepoREST) Update(ctx context.Context, id int, in *Appointment) (*Appointment, error) {
	var a Appointment
	if err := r.api.Put(ctx, fmt.Sprintf("/appointments/%d", id), nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepoREST) Delete(ctx context.Context, id int) error {
	return r.api.Delete(ctx, fmt.Sprintf("/appointments/%d", id), nil)
}

func (r *appointmentRepoREST) ByDoctor(ctx context.Context, doctorID int) ([]Appointment, error) {
	return r.list(ctx, fmt.Sprintf("/appointments/doctor/%d", doctorID))
}

func (r *appointmentRepoREST) ByPatient(ctx context.Context, patientID int) ([]Appointment, error) {
	return r.list(ctx, fmt.Sprintf("/appointments/patient/%d", patientID))
}

func (r *appointmentRepoREST) ByStatus(ctx context.Context, status Status) ([]Appointment, error) {
	return r.list(ctx, "/appointments/status/"+url.PathEscape(string(status)))
}

func (r *appointmentRepoREST) ByDate(ctx context.Context, date string) ([]Appointment, error) {
	return r.list(ctx, "/appointments/date/"+url.PathEscape(date))
}

func (r *appointmentRepoREST) ByDoctorAndDate(ctx context.Context, doctorID int, date string) ([]Appointment, error) {
	return r.list(ctx, fmt.Sprintf("/appointments/doctor/%d/date/%s", doctorID, url.PathEscape(date)))
}

// UpdateStatus uses the dedicated status endpoint and falls back to a plain
// update for backends that only expose PUT /appointments/{id}.
func (r *appointmentRepoREST) UpdateStatus(ctx context.Context, id int, status Status) (*Appointment, error) {
	var a Appointment
	q := url.Values{"status": {string(status)}}
	err := r.api.Put(ctx, fmt.Sprintf("/appointments/%d/status", id), q, nil, &a)
	if err == nil {
		return &a, nil
	}
	if apiclient.IsUnauthorized(err) {
		return nil, err
	}

	a = Appointment{}
	body := map[string]Status{"status": status}
	if ferr := r.api.Put(ctx, fmt.Sprintf("/appointments/%d", id), nil, body, &a); ferr != nil {
		return nil, ferr
	}
	return &a, nil
}

// CheckAvailability accepts either a bare boolean or {"available": bool}.
func (r *appointmentRepoREST) CheckAvailability(ctx context.Context, doctorID int, date, clock string) (bool, error) {
	q := url.Values{
		"doctorId": {strconv.Itoa(doctorID)},
		"date":     {date},
		"time":     {clock},
	}
	var raw json.RawMessage
	if err := r.api.Get(ctx, "/appointments/check", q, &raw); err != nil {
		return false, err
	}
	var available bool
	if err := json.Unmarshal(raw, &available); err == nil {
		return available, nil
	}
	var wrapped struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return false, fmt.Errorf("decode availability: %w", err)
	}
	return wrapped.Available, nil
}

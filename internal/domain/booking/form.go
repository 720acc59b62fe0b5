package booking

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/platform/session"
)

var (
	ErrSlotsLoading  = errors.New("slots are still loading")
	ErrUnknownDoctor = errors.New("selected doctor is not on the list")
)

// Ticket tags one slot computation with the input pair it was issued for.
type Ticket struct {
	ID       uuid.UUID
	DoctorID int
	Date     string
}

func (t Ticket) complete() bool {
	return t.DoctorID > 0 && t.Date != ""
}

// Snapshot is a copy of the form's visible state.
type Snapshot struct {
	DoctorID int
	Date     string
	Slots    []TimeSlot
	Warning  string
	Loading  bool
}

// SubmitInput is the rest of the form once doctor and date are chosen.
type SubmitInput struct {
	Time  string
	Type  string
	Notes string
}

// Form holds the state of one booking form. Only the result of the most
// recent Select may become visible; older results are dropped on arrival.
type Form struct {
	svc      *Service
	sessions session.Store
	logger   zerolog.Logger

	mu      sync.Mutex
	latest  Ticket
	slots   []TimeSlot
	warning string
	loading bool
	doctors []doctors.Doctor
}

func NewForm(svc *Service, sessions session.Store, logger zerolog.Logger) *Form {
	return &Form{svc: svc, sessions: sessions, logger: logger, slots: []TimeSlot{}}
}

// Select records a new (doctor, date) input and clears the visible slots.
// The returned ticket must accompany the matching Apply.
func (f *Form) Select(doctorID int, date string) Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := Ticket{ID: uuid.New(), DoctorID: doctorID, Date: date}
	f.latest = t
	f.slots = []TimeSlot{}
	f.warning = ""
	f.loading = t.complete()
	return t
}

// Apply makes res visible if t is still the latest ticket and reports
// whether it did.
func (f *Form) Apply(t Ticket, res Result) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.ID != f.latest.ID {
		f.logger.Debug().
			Int("doctor_id", t.DoctorID).
			Str("date", t.Date).
			Msg("dropping stale slot result")
		return false
	}
	f.slots = append([]TimeSlot(nil), res.Slots...)
	if f.slots == nil {
		f.slots = []TimeSlot{}
	}
	f.warning = res.Warning
	f.loading = false
	return true
}

func (f *Form) abort(t Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == f.latest.ID {
		f.loading = false
	}
}

// Load selects (doctorID, date), computes its slots and applies them. An
// incomplete pair only clears the list.
func (f *Form) Load(ctx context.Context, doctorID int, date string) (Result, error) {
	t := f.Select(doctorID, date)
	if !t.complete() {
		return Result{DoctorID: doctorID, Date: date, Slots: []TimeSlot{}}, nil
	}
	res, err := f.svc.Slots(ctx, doctorID, date)
	if err != nil {
		f.abort(t)
		return res, err
	}
	f.Apply(t, res)
	return res, nil
}

func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		DoctorID: f.latest.DoctorID,
		Date:     f.latest.Date,
		Slots:    append([]TimeSlot{}, f.slots...),
		Warning:  f.warning,
		Loading:  f.loading,
	}
}

// LoadDoctors fills the doctor selector.
func (f *Form) LoadDoctors(ctx context.Context) ([]doctors.Doctor, error) {
	list, err := f.svc.Doctors(ctx)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.doctors = list
	f.mu.Unlock()
	return list, nil
}

// Doctor returns the loaded doctor with id.
func (f *Form) Doctor(id int) (doctors.Doctor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doctor(id)
}

func (f *Form) doctor(id int) (doctors.Doctor, bool) {
	for _, d := range f.doctors {
		if d.ID == id {
			return d, true
		}
	}
	return doctors.Doctor{}, false
}

// Submit books the chosen slot for the signed-in patient. It refuses while
// slots are loading and for a slot the visible list shows as booked.
func (f *Form) Submit(ctx context.Context, in SubmitInput) (*appointments.Appointment, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, ErrSlotsLoading
	}
	sel := f.latest
	known := append([]TimeSlot{}, f.slots...)
	_, listed := f.doctor(sel.DoctorID)
	checkDoctor := len(f.doctors) > 0
	f.mu.Unlock()

	if !sel.complete() || in.Time == "" {
		return nil, ErrIncomplete
	}
	if checkDoctor && !listed {
		return nil, ErrUnknownDoctor
	}
	if _, ok := find(known, in.Time); !ok {
		return nil, ErrSlotNotOffered
	}

	u, err := session.CurrentUser(ctx, f.sessions)
	if err != nil {
		return nil, err
	}
	if u.Role != session.RolePatient {
		return nil, ErrNotPatient
	}

	return f.svc.Book(ctx, u.ID, Request{
		DoctorID: sel.DoctorID,
		Date:     sel.Date,
		Time:     in.Time,
		Type:     in.Type,
		Notes:    in.Notes,
	}, known)
}

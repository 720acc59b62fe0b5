package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/platform/session"
)

var (
	ErrInvalidPatient = errors.New("invalid patient")
	ErrInvalidDOB     = errors.New("date of birth must be a past YYYY-MM-DD date")
)

type Service struct {
	repo     Repository
	sessions session.Store
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService wires the patient service. sessions is refreshed after a
// patient edits their own profile; it may be nil.
func NewService(repo Repository, sessions session.Store, logger zerolog.Logger) *Service {
	return &Service{repo: repo, sessions: sessions, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

// Query narrows the patient list by one criterion; the first non-empty
// field wins.
type Query struct {
	Name    string
	Email   string
	Contact string
}

// Search runs the backend search matching q, or lists everyone.
func (s *Service) Search(ctx context.Context, q Query) ([]Patient, error) {
	switch {
	case strings.TrimSpace(q.Name) != "":
		return s.repo.SearchByName(ctx, strings.TrimSpace(q.Name))
	case strings.TrimSpace(q.Email) != "":
		p, err := s.repo.ByEmail(ctx, strings.TrimSpace(q.Email))
		if err != nil {
			return nil, err
		}
		return []Patient{*p}, nil
	case strings.TrimSpace(q.Contact) != "":
		return s.repo.ByContact(ctx, strings.TrimSpace(q.Contact))
	}
	return s.repo.List(ctx)
}

func (s *Service) ForDoctor(ctx context.Context, doctorID int) ([]Patient, error) {
	return s.repo.ByDoctor(ctx, doctorID)
}

// Register creates a patient account. Age is derived from the date of
// birth unless given.
func (s *Service) Register(ctx context.Context, r *Registration) (*Patient, error) {
	p := &Patient{
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Mobile:     strings.TrimSpace(r.Mobile),
		DOB:        r.DOB,
		Age:        r.Age,
		Gender:     r.Gender,
		BloodGroup: r.BloodGroup,
		Address:    strings.TrimSpace(r.Address),
		Password:   r.Password,
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	if len(r.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidPatient)
	}
	if p.DOB != "" {
		age, ok := AgeOn(p.DOB, s.now())
		if !ok {
			return nil, ErrInvalidDOB
		}
		if p.Age == 0 {
			p.Age = age
		}
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("patient_id", created.ID).Msg("patient registered")
	return created, nil
}

func validate(p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPatient)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: a valid e-mail is required", ErrInvalidPatient)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative", ErrInvalidPatient)
	}
	return nil
}

// UpdateProfile saves p over patient id. A blank password is not sent.
// When id is the signed-in patient the session's user record picks up the
// new name and e-mail.
func (s *Service) UpdateProfile(ctx context.Context, id int, p *Patient) (*Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if err := validate(p); err != nil {
		return nil, err
	}
	if p.DOB != "" {
		age, ok := AgeOn(p.DOB, s.now())
		if !ok {
			return nil, ErrInvalidDOB
		}
		p.Age = age
	}
	p.ID = id

	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.refreshSession(ctx, updated)
	return updated, nil
}

func (s *Service) refreshSession(ctx context.Context, p *Patient) {
	if s.sessions == nil {
		return
	}
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return
	}
	if sess.User == nil || sess.User.Role != session.RolePatient || sess.User.ID != p.ID {
		return
	}
	if p.Name != "" {
		sess.User.Name = p.Name
	}
	if p.Email != "" {
		sess.User.Email = p.Email
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Warn().Err(err).Int("patient_id", p.ID).Msg("failed to refresh session user")
	}
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int("patient_id", id).Msg("patient deleted")
	return nil
}

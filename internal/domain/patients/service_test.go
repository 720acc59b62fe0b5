package patients

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/session"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[int]*Patient
	next     int
	byDoctor map[int][]int
	query    string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients: map[int]*Patient{
			1: {ID: 1, Name: "Asha Menon", Email: "asha@hms.test", Mobile: "555-0101", Password: "stored"},
			2: {ID: 2, Name: "Ravi Kumar", Email: "ravi@hms.test", Mobile: "555-0202"},
		},
		next:     10,
		byDoctor: map[int][]int{3: {2}},
	}
}

func (m *mockRepo) List(_ context.Context) ([]Patient, error) {
	out := []Patient{}
	for id := 1; id <= m.next; id++ {
		if p, ok := m.patients[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, id int) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, &apiclient.APIError{StatusCode: 404, Message: "Patient not found"}
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Create(_ context.Context, p *Patient) (*Patient, error) {
	m.next++
	cp := *p
	cp.ID = m.next
	m.patients[cp.ID] = &cp
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, id int, p *Patient) (*Patient, error) {
	if _, ok := m.patients[id]; !ok {
		return nil, &apiclient.APIError{StatusCode: 404, Message: "Patient not found"}
	}
	cp := *p
	m.patients[id] = &cp
	return &cp, nil
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.patients[id]; !ok {
		return &apiclient.APIError{StatusCode: 404, Message: "Patient not found"}
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) SearchByName(ctx context.Context, name string) ([]Patient, error) {
	m.query = "name:" + name
	all, _ := m.List(ctx)
	out := []Patient{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) ByEmail(_ context.Context, email string) (*Patient, error) {
	m.query = "email:" + email
	for _, p := range m.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, &apiclient.APIError{StatusCode: 404, Message: "Patient not found"}
}

func (m *mockRepo) ByContact(ctx context.Context, contact string) ([]Patient, error) {
	m.query = "contact:" + contact
	all, _ := m.List(ctx)
	out := []Patient{}
	for _, p := range all {
		if p.Mobile == contact {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) ByDoctor(_ context.Context, doctorID int) ([]Patient, error) {
	out := []Patient{}
	for _, id := range m.byDoctor[doctorID] {
		out = append(out, *m.patients[id])
	}
	return out, nil
}

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo, *session.MemoryStore) {
	repo := newMockRepo()
	store := session.NewMemoryStore()
	svc := NewService(repo, store, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, repo, store
}

func TestService_Search(t *testing.T) {
	tests := []struct {
		name      string
		q         Query
		wantQuery string
		wantIDs   []int
	}{
		{"all", Query{}, "", []int{1, 2}},
		{"by name", Query{Name: " asha "}, "name:asha", []int{1}},
		{"by email", Query{Email: "ravi@hms.test"}, "email:ravi@hms.test", []int{2}},
		{"by contact", Query{Contact: "555-0101"}, "contact:555-0101", []int{1}},
		{"name wins", Query{Name: "ravi", Email: "asha@hms.test"}, "name:ravi", []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			got, err := svc.Search(context.Background(), tt.q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.query != tt.wantQuery {
				t.Errorf("expected backend query %q, got %q", tt.wantQuery, repo.query)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d patients, got %+v", len(tt.wantIDs), got)
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestService_Search_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Search(context.Background(), Query{Email: "nobody@hms.test"}); !apiclient.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_Register(t *testing.T) {
	var buf bytes.Buffer
	svc, repo, _ := newTestService()
	svc.logger = zerolog.New(&buf)

	p, err := svc.Register(context.Background(), &Registration{
		Name: " Lena Park ", Email: "lena@hms.test", Password: "hunter22", DOB: "2000-12-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 11 || p.Name != "Lena Park" {
		t.Errorf("unexpected patient %+v", p)
	}
	if repo.patients[11].Age != 25 {
		t.Errorf("expected age 25 derived from DOB, got %d", repo.patients[11].Age)
	}
	if !strings.Contains(buf.String(), "patient registered") {
		t.Errorf("expected registration log line, got %q", buf.String())
	}
}

func TestService_Register_ExplicitAgeKept(t *testing.T) {
	svc, repo, _ := newTestService()
	if _, err := svc.Register(context.Background(), &Registration{
		Name: "Omar", Email: "omar@hms.test", Password: "secret1", DOB: "1990-01-01", Age: 40,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.patients[11].Age != 40 {
		t.Errorf("expected supplied age to be kept, got %d", repo.patients[11].Age)
	}
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		reg     Registration
		wantErr error
	}{
		{"no name", Registration{Email: "a@b.c", Password: "secret1"}, ErrInvalidPatient},
		{"bad email", Registration{Name: "A", Email: "nope", Password: "secret1"}, ErrInvalidPatient},
		{"short password", Registration{Name: "A", Email: "a@b.c", Password: "123"}, ErrInvalidPatient},
		{"future dob", Registration{Name: "A", Email: "a@b.c", Password: "secret1", DOB: "2030-01-01"}, ErrInvalidDOB},
		{"garbled dob", Registration{Name: "A", Email: "a@b.c", Password: "secret1", DOB: "yesterday"}, ErrInvalidDOB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			if _, err := svc.Register(context.Background(), &tt.reg); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(repo.patients) != 2 {
				t.Error("nothing should be created")
			}
		})
	}
}

func TestService_UpdateProfile_RefreshesSession(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := session.WithID(context.Background(), "browser-1")
	store.Save(ctx, &session.Session{Token: "tok", User: &session.User{ID: 1, Name: "Asha Menon", Role: session.RolePatient}})

	_, err := svc.UpdateProfile(ctx, 1, &Patient{Name: "Asha M. Menon", Email: "asha.m@hms.test", DOB: "1990-10-17"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.patients[1].Age != 35 || repo.patients[1].ID != 1 {
		t.Errorf("unexpected stored patient %+v", repo.patients[1])
	}

	u, err := session.CurrentUser(ctx, store)
	if err != nil {
		t.Fatalf("session lost: %v", err)
	}
	if u.Name != "Asha M. Menon" || u.Email != "asha.m@hms.test" {
		t.Errorf("session user not refreshed: %+v", u)
	}
}

func TestService_UpdateProfile_OtherPatientLeavesSession(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()
	store.Save(ctx, &session.Session{Token: "tok", User: &session.User{ID: 9, Name: "Admin", Role: session.RoleAdmin}})

	if _, err := svc.UpdateProfile(ctx, 2, &Patient{Name: "Ravi K", Email: "ravi@hms.test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := session.CurrentUser(ctx, store)
	if u.Name != "Admin" {
		t.Errorf("session of another user was modified: %+v", u)
	}
}

func TestService_UpdateProfile_Invalid(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.UpdateProfile(context.Background(), 1, &Patient{Name: " ", Email: "a@b.c"}); !errors.Is(err, ErrInvalidPatient) {
		t.Errorf("expected ErrInvalidPatient, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, _ := newTestService()
	if err := svc.Delete(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.patients[2]; ok {
		t.Error("patient 2 should be gone")
	}
	if err := svc.Delete(context.Background(), 2); !apiclient.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

package service

import (
	"context"
	"sync"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/docpoint/docpoint-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The prometheus default registry rejects duplicate registration, so all
// tests in this package share one collector.
var testCollector = metrics.NewCollector("service_test")

type fakeAppointmentRepo struct {
	reserveErr error
	cancelErr  error

	reserved   []*appointment.Appointment
	cancelled  *appointment.Appointment
	cancelCall struct {
		id          uuid.UUID
		principalID uuid.UUID
		role        domain.Role
	}

	byUser   []*appointment.Appointment
	byDoctor []*appointment.Appointment
	earnings *appointment.Earnings
}

func (f *fakeAppointmentRepo) Reserve(_ context.Context, a *appointment.Appointment) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	a.ID = uuid.New()
	f.reserved = append(f.reserved, a)
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id, principalID uuid.UUID, role domain.Role) (*appointment.Appointment, error) {
	f.cancelCall.id = id
	f.cancelCall.principalID = principalID
	f.cancelCall.role = role
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	if f.cancelled == nil {
		f.cancelled = &appointment.Appointment{ID: id, Cancelled: true}
	}
	return f.cancelled, nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	for _, a := range f.reserved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, appointment.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]*appointment.Appointment, error) {
	return f.byUser, nil
}

func (f *fakeAppointmentRepo) ListByDoctor(_ context.Context, _ uuid.UUID) ([]*appointment.Appointment, error) {
	return f.byDoctor, nil
}

func (f *fakeAppointmentRepo) Earnings(_ context.Context, _ uuid.UUID) (*appointment.Earnings, error) {
	if f.earnings == nil {
		return &appointment.Earnings{}, nil
	}
	return f.earnings, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User

	loginAttempts []bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*user.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return user.ErrEmailTaken
	}
	u.ID = uuid.New()
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, id uuid.UUID, cmd *user.UpdateUserCommand) (*user.User, error) {
	u, err := f.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		u.Name = *cmd.Name
	}
	if cmd.Phone != nil {
		u.Phone = *cmd.Phone
	}
	if cmd.Address != nil {
		u.Address = cmd.Address
	}
	if cmd.DOB != nil {
		u.DOB = *cmd.DOB
	}
	if cmd.Gender != nil {
		u.Gender = *cmd.Gender
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateLoginAttempt(_ context.Context, _ uuid.UUID, success bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginAttempts = append(f.loginAttempts, success)
	return nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*doctor.Doctor

	listErr      error
	listCalls    int
	availability map[uuid.UUID]bool
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		doctors:      map[string]*doctor.Doctor{},
		availability: map[uuid.UUID]bool{},
	}
}

func (f *fakeDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[d.Email]; ok {
		return doctor.ErrEmailTaken
	}
	d.ID = uuid.New()
	f.doctors[d.Email] = d
	return nil
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.doctors[email]; ok {
		return d, nil
	}
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) List(_ context.Context) ([]*doctor.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*doctor.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDoctorRepo) Update(_ context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	d, err := f.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if cmd.Fee != nil {
		d.Fee = *cmd.Fee
	}
	if cmd.About != nil {
		d.About = *cmd.About
	}
	if cmd.Address != nil {
		d.Address = cmd.Address
	}
	if cmd.Available != nil {
		d.Available = *cmd.Available
	}
	return d, nil
}

func (f *fakeDoctorRepo) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availability[id] = available
	for _, d := range f.doctors {
		if d.ID == id {
			d.Available = available
		}
	}
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func newTestAuditService() *AuditService {
	return NewAuditService(&fakeAuditRepo{}, testCollector, zap.NewNop())
}

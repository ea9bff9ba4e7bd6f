package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	barberserrors "barberbook/internal/barbers/errors"
	"barberbook/internal/barbers/validator"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type memoryBarbers struct {
	mu      sync.Mutex
	barbers map[string]*model.Barber
	next    int
	failAll error
}

func newMemoryBarbers() *memoryBarbers {
	return &memoryBarbers{barbers: map[string]*model.Barber{}}
}

func (m *memoryBarbers) Create(ctx context.Context, barber *model.Barber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.barbers {
		if b.Email == barber.Email {
			return barberserrors.ErrEmailTaken
		}
	}
	m.next++
	barber.ID = fmt.Sprintf("64b0000000000000000000%02x", m.next)
	cp := *barber
	m.barbers[barber.ID] = &cp
	return nil
}

func (m *memoryBarbers) FindByID(ctx context.Context, id string) (*model.Barber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.barbers[id]
	if !ok {
		return nil, barberserrors.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memoryBarbers) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Barber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	all := []*model.Barber{}
	for _, b := range m.barbers {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if int(offset) >= len(all) {
		return []*model.Barber{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryBarbers) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.barbers)), nil
}

func (m *memoryBarbers) Update(ctx context.Context, id string, barber *model.Barber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.barbers[id]; !ok {
		return barberserrors.ErrNotFound
	}
	cp := *barber
	m.barbers[id] = &cp
	return nil
}

func (m *memoryBarbers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.barbers[id]; !ok {
		return barberserrors.ErrNotFound
	}
	delete(m.barbers, id)
	return nil
}

func (m *memoryBarbers) ApplyRating(ctx context.Context, id string, aggregate model.RatingAggregate) error {
	return nil
}

func (m *memoryBarbers) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type memoryOfferings struct {
	mu        sync.Mutex
	offerings map[string]*model.ServiceOffering
	next      int
}

func newMemoryOfferings() *memoryOfferings {
	return &memoryOfferings{offerings: map[string]*model.ServiceOffering{}}
}

func (m *memoryOfferings) Create(ctx context.Context, offering *model.ServiceOffering) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	offering.ID = fmt.Sprintf("64c0000000000000000000%02x", m.next)
	cp := *offering
	m.offerings[offering.ID] = &cp
	return nil
}

func (m *memoryOfferings) FindByID(ctx context.Context, id string) (*model.ServiceOffering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[id]
	if !ok {
		return nil, barberserrors.ErrServiceNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryOfferings) FindByBarber(ctx context.Context, barberID string) ([]*model.ServiceOffering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ServiceOffering{}
	for _, o := range m.offerings {
		if o.BarberID == barberID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryOfferings) Update(ctx context.Context, id string, offering *model.ServiceOffering) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offerings[id]; !ok {
		return barberserrors.ErrServiceNotFound
	}
	cp := *offering
	m.offerings[id] = &cp
	return nil
}

func (m *memoryOfferings) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offerings[id]; !ok {
		return barberserrors.ErrServiceNotFound
	}
	delete(m.offerings, id)
	return nil
}

func (m *memoryOfferings) DeleteByBarber(ctx context.Context, barberID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, o := range m.offerings {
		if o.BarberID == barberID {
			delete(m.offerings, id)
			n++
		}
	}
	return n, nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func newTestService(t *testing.T) (BarberService, *memoryBarbers, *memoryOfferings) {
	t.Helper()
	log := logger.Discard()
	cfg := &config.Config{Log: log}
	barbers := newMemoryBarbers()
	offerings := newMemoryOfferings()
	return NewBarberService(barbers, offerings, validator.NewBarberValidator(log), cfg), barbers, offerings
}

func createBarber(t *testing.T, svc BarberService, email string) *model.Barber {
	t.Helper()
	b := &model.Barber{Name: "Dana Levi", Email: email, ExperienceYears: 4}
	require.NoError(t, svc.Create(context.Background(), b, model.Actor{UserID: "new", Role: model.RoleProvider}))
	return b
}

func owner(b *model.Barber) model.Actor {
	return model.Actor{UserID: b.ID, Role: model.RoleProvider}
}

// ────────────────────────────────────────────────
// Profiles
// ────────────────────────────────────────────────

func TestCreate_SanitizesAndResetsDerivedFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	b := &model.Barber{
		Name:           "  Dana   Levi ",
		Email:          " Dana@Example.COM ",
		Phone:          "+1 (212) 555-1234",
		Specialization: "  Fades ",
		Rating:         4.9,
		ReviewCount:    12,
	}
	err := svc.Create(context.Background(), b, model.Actor{UserID: "u1", Role: model.RoleProvider})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Dana Levi", b.Name)
	assert.Equal(t, "dana@example.com", b.Email)
	assert.Equal(t, "+12125551234", b.Phone)
	assert.Equal(t, "fades", b.Specialization)
	assert.Zero(t, b.Rating)
	assert.Zero(t, b.ReviewCount)
}

func TestCreate_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	createBarber(t, svc, "taken@example.com")

	tests := []struct {
		name   string
		barber *model.Barber
		actor  model.Actor
		code   string
	}{
		{
			name:   "customer cannot create",
			barber: &model.Barber{Name: "Dana Levi", Email: "a@example.com"},
			actor:  model.Actor{UserID: "c1", Role: model.RoleCustomer},
			code:   apperrors.CodeForbidden,
		},
		{
			name:   "invalid email",
			barber: &model.Barber{Name: "Dana Levi", Email: "not-an-email"},
			actor:  model.Actor{UserID: "u1", Role: model.RoleProvider},
			code:   apperrors.CodeValidation,
		},
		{
			name:   "unparseable phone is reported",
			barber: &model.Barber{Name: "Dana Levi", Email: "b@example.com", Phone: "12"},
			actor:  model.Actor{UserID: "u1", Role: model.RoleProvider},
			code:   apperrors.CodeValidation,
		},
		{
			name:   "duplicate email",
			barber: &model.Barber{Name: "Other Barber", Email: "TAKEN@example.com"},
			actor:  model.Actor{UserID: "u1", Role: model.RoleProvider},
			code:   apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.barber, tt.actor)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "64b0000000000000000000ff")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.GetByID(context.Background(), "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestGetAll_ClampsLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		createBarber(t, svc, fmt.Sprintf("b%d@example.com", i))
	}

	barbers, total, err := svc.GetAll(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, barbers, 3)

	barbers, total, err = svc.GetAll(context.Background(), 1000, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, barbers, 1)
}

func TestGetAll_StorageFailure(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.failAll = context.DeadlineExceeded

	_, _, err := svc.GetAll(context.Background(), 10, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")

	years := 9
	location := "  Tel   Aviv "
	updated, err := svc.Update(context.Background(), b.ID, &model.BarberUpdate{
		ExperienceYears: &years,
		Location:        &location,
	}, owner(b))
	require.NoError(t, err)

	assert.Equal(t, "Dana Levi", updated.Name)
	assert.Equal(t, "dana@example.com", updated.Email)
	assert.Equal(t, 9, updated.ExperienceYears)
	assert.Equal(t, "Tel Aviv", updated.Location)
}

func TestUpdate_OnlyOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")

	_, err := svc.Update(context.Background(), b.ID, &model.BarberUpdate{Name: "Someone Else"},
		model.Actor{UserID: "64b0000000000000000000ee", Role: model.RoleProvider})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.Update(context.Background(), b.ID, &model.BarberUpdate{Name: "Someone Else"},
		model.Actor{UserID: b.ID, Role: model.RoleCustomer})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestDelete_RemovesOfferings(t *testing.T) {
	svc, barbers, offerings := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")
	require.NoError(t, svc.AddService(context.Background(), b.ID,
		&model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 30}, owner(b)))

	require.NoError(t, svc.Delete(context.Background(), b.ID, owner(b)))

	assert.Empty(t, barbers.barbers)
	assert.Empty(t, offerings.offerings)

	err := svc.Delete(context.Background(), b.ID, owner(b))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

// ────────────────────────────────────────────────
// Offerings
// ────────────────────────────────────────────────

func TestAddService_ScopedToBarber(t *testing.T) {
	svc, _, _ := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")

	offering := &model.ServiceOffering{BarberID: "ignored", Name: " Beard   trim ", Price: 40, DurationMinutes: 20}
	require.NoError(t, svc.AddService(context.Background(), b.ID, offering, owner(b)))

	assert.Equal(t, b.ID, offering.BarberID)
	assert.Equal(t, "Beard trim", offering.Name)

	list, err := svc.ListServices(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, offering.ID, list[0].ID)
}

func TestAddService_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")

	err := svc.AddService(context.Background(), b.ID,
		&model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 0}, owner(b))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	err = svc.AddService(context.Background(), b.ID,
		&model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 30},
		model.Actor{UserID: "cust-1", Role: model.RoleCustomer})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	ghost := model.Actor{UserID: "64b0000000000000000000ff", Role: model.RoleProvider}
	err = svc.AddService(context.Background(), ghost.UserID,
		&model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 30}, ghost)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestGetService_OtherBarberIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	a := createBarber(t, svc, "a@example.com")
	b := createBarber(t, svc, "b@example.com")

	offering := &model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 30}
	require.NoError(t, svc.AddService(context.Background(), a.ID, offering, owner(a)))

	_, err := svc.GetService(context.Background(), b.ID, offering.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	err = svc.DeleteService(context.Background(), b.ID, offering.ID, owner(b))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateService_MergesAndValidates(t *testing.T) {
	svc, _, _ := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")
	offering := &model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 30}
	require.NoError(t, svc.AddService(context.Background(), b.ID, offering, owner(b)))

	duration := 45
	updated, err := svc.UpdateService(context.Background(), b.ID, offering.ID,
		&model.ServiceOfferingUpdate{DurationMinutes: &duration}, owner(b))
	require.NoError(t, err)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.Equal(t, "Haircut", updated.Name)
	assert.Equal(t, 80.0, updated.Price)

	negative := -5.0
	_, err = svc.UpdateService(context.Background(), b.ID, offering.ID,
		&model.ServiceOfferingUpdate{Price: &negative}, owner(b))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestDeleteService(t *testing.T) {
	svc, _, offerings := newTestService(t)
	b := createBarber(t, svc, "dana@example.com")
	offering := &model.ServiceOffering{Name: "Haircut", Price: 80, DurationMinutes: 30}
	require.NoError(t, svc.AddService(context.Background(), b.ID, offering, owner(b)))

	require.NoError(t, svc.DeleteService(context.Background(), b.ID, offering.ID, owner(b)))
	assert.Empty(t, offerings.offerings)
}

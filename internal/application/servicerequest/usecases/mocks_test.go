package usecases

import (
	"context"
	"sync"
	"time"

	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/domain/user"
)

var (
	testNow   = time.Date(2026, 4, 20, 9, 30, 0, 0, time.UTC)
	testAdmin = user.Actor{ID: 1, Username: "ns6", Role: user.RoleAdmin}
	testUser  = user.Actor{ID: 2, Username: "mobitel", Role: user.RoleUser}
)

func fixedClock() time.Time { return testNow }

type mockServiceRequestRepository struct {
	CreateFunc             func(ctx context.Context, sr *servicerequest.ServiceRequest) error
	UpdateFunc             func(ctx context.Context, sr *servicerequest.ServiceRequest) error
	DeleteFunc             func(ctx context.Context, id uint) error
	GetBySIDFunc           func(ctx context.Context, sid string) (*servicerequest.ServiceRequest, error)
	GetByServiceNumberFunc func(ctx context.Context, serviceNumber string) (*servicerequest.ServiceRequest, error)
	GetByRCAFilePathFunc   func(ctx context.Context, path string) (*servicerequest.ServiceRequest, error)
	ListFunc               func(ctx context.Context, filter servicerequest.Filter) ([]*servicerequest.ServiceRequest, int64, error)
	ListAllFunc            func(ctx context.Context) ([]*servicerequest.ServiceRequest, error)
	CountFunc              func(ctx context.Context, predicate servicerequest.CountPredicate) (int64, error)
}

func (m *mockServiceRequestRepository) Create(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sr)
	}
	return nil
}

func (m *mockServiceRequestRepository) Update(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sr)
	}
	return nil
}

func (m *mockServiceRequestRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockServiceRequestRepository) GetBySID(ctx context.Context, sid string) (*servicerequest.ServiceRequest, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) GetByServiceNumber(ctx context.Context, serviceNumber string) (*servicerequest.ServiceRequest, error) {
	if m.GetByServiceNumberFunc != nil {
		return m.GetByServiceNumberFunc(ctx, serviceNumber)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) GetByRCAFilePath(ctx context.Context, path string) (*servicerequest.ServiceRequest, error) {
	if m.GetByRCAFilePathFunc != nil {
		return m.GetByRCAFilePathFunc(ctx, path)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) List(ctx context.Context, filter servicerequest.Filter) ([]*servicerequest.ServiceRequest, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockServiceRequestRepository) ListAll(ctx context.Context) ([]*servicerequest.ServiceRequest, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) Count(ctx context.Context, predicate servicerequest.CountPredicate) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, predicate)
	}
	return 0, nil
}

type mockDirectory struct {
	usernames map[uint]string
	err       error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{usernames: map[uint]string{1: "ns6", 2: "mobitel", 3: "huawei"}}
}

func (m *mockDirectory) GetUsernames(_ context.Context, ids []uint) (map[uint]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uint]string)
	for _, id := range ids {
		if name, ok := m.usernames[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (m *mockDirectory) GetByUsername(_ context.Context, username string) (*user.Account, error) {
	for id, name := range m.usernames {
		if name == username {
			return &user.Account{ID: id, Username: name, Role: user.RoleUser}, nil
		}
	}
	return nil, nil
}

func (m *mockDirectory) Ensure(_ context.Context, _ *user.Account) (bool, error) {
	return false, nil
}

// mockAttachments records stored and removed paths in call order. Every path
// exists unless listed in missing.
type mockAttachments struct {
	mu        sync.Mutex
	attachErr error
	missing   map[string]bool
	attached  []string
	removed   []string
	calls     []string
}

func (m *mockAttachments) Attach(_ context.Context, fileName string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attachErr != nil {
		return "", m.attachErr
	}
	path := "/uploads/stored-" + fileName
	m.attached = append(m.attached, path)
	m.calls = append(m.calls, "attach:"+path)
	return path, nil
}

func (m *mockAttachments) Remove(_ context.Context, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if path == "" {
		return
	}
	m.removed = append(m.removed, path)
	m.calls = append(m.calls, "remove:"+path)
}

func (m *mockAttachments) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.missing[path], nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
	err       error
}

func (m *mockPublisher) Publish(event events.DomainEvent) error {
	return m.PublishAll([]events.DomainEvent{event})
}

func (m *mockPublisher) PublishAll(evs []events.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, evs...)
	return nil
}

func (m *mockPublisher) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.published))
	for _, e := range m.published {
		types = append(types, e.GetEventType())
	}
	return types
}

// mockTransactor runs fn inline and reports whether it was used.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// memoryRepository is a small in-memory Repository for behavioural tests.
type memoryRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   []*servicerequest.ServiceRequest
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{nextID: 1}
}

func (r *memoryRepository) Create(_ context.Context, sr *servicerequest.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr.SetID(r.nextID)
	r.nextID++
	r.rows = append(r.rows, sr)
	return nil
}

func (r *memoryRepository) Update(context.Context, *servicerequest.ServiceRequest) error { return nil }

func (r *memoryRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sr := range r.rows {
		if sr.ID() == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryRepository) find(match func(*servicerequest.ServiceRequest) bool) *servicerequest.ServiceRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sr := range r.rows {
		if match(sr) {
			return sr
		}
	}
	return nil
}

func (r *memoryRepository) GetBySID(_ context.Context, sid string) (*servicerequest.ServiceRequest, error) {
	return r.find(func(sr *servicerequest.ServiceRequest) bool { return sr.SID() == sid }), nil
}

func (r *memoryRepository) GetByServiceNumber(_ context.Context, sn string) (*servicerequest.ServiceRequest, error) {
	return r.find(func(sr *servicerequest.ServiceRequest) bool { return sr.ServiceNumber() == sn }), nil
}

func (r *memoryRepository) GetByRCAFilePath(_ context.Context, path string) (*servicerequest.ServiceRequest, error) {
	if path == "" {
		return nil, nil
	}
	return r.find(func(sr *servicerequest.ServiceRequest) bool { return sr.RCAFilePath() == path }), nil
}

func (r *memoryRepository) List(_ context.Context, f servicerequest.Filter) ([]*servicerequest.ServiceRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*servicerequest.ServiceRequest
	// rows are appended in insertion order; walk backwards for newest first
	for i := len(r.rows) - 1; i >= 0; i-- {
		sr := r.rows[i]
		if f.Status != nil && sr.Status() != *f.Status {
			continue
		}
		matched = append(matched, sr)
	}
	start := (f.Page - 1) * f.PageSize
	if start >= len(matched) {
		return []*servicerequest.ServiceRequest{}, int64(len(matched)), nil
	}
	end := min(start+f.PageSize, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *memoryRepository) ListAll(ctx context.Context) ([]*servicerequest.ServiceRequest, error) {
	items, _, err := r.List(ctx, servicerequest.Filter{Page: 1, PageSize: 1 << 20})
	return items, err
}

func (r *memoryRepository) Count(_ context.Context, p servicerequest.CountPredicate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sr := range r.rows {
		if p.Status != nil && sr.Status() != *p.Status {
			continue
		}
		if p.CreatedSince != nil && sr.CreatedAt().Before(*p.CreatedSince) {
			continue
		}
		n++
	}
	return n, nil
}

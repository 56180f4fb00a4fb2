package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return entity.ErrEmailAlreadyExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, entity.ErrNotFound
}

type memLeads struct {
	mu         sync.Mutex
	leads      map[string]*entity.Lead
	lastFilter entity.LeadFilter
}

func newMemLeads(leads ...*entity.Lead) *memLeads {
	m := &memLeads{leads: map[string]*entity.Lead{}}
	for _, l := range leads {
		m.leads[l.ID] = l
	}
	return m
}

func (m *memLeads) Create(_ context.Context, l *entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[l.ID] = l
	return nil
}

func (m *memLeads) FindByID(_ context.Context, ownerID, id string) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leads[id]; ok && l.OwnerID == ownerID {
		return l, nil
	}
	return nil, entity.ErrNotFound
}

func (m *memLeads) Update(_ context.Context, l *entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[l.ID] = l
	return nil
}

func (m *memLeads) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leads[id]; ok && l.OwnerID == ownerID {
		delete(m.leads, id)
		return nil
	}
	return entity.ErrNotFound
}

func (m *memLeads) List(_ context.Context, f entity.LeadFilter) ([]*entity.Lead, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f

	wanted := map[string]bool{}
	for _, id := range f.IDs {
		wanted[id] = true
	}

	var out []*entity.Lead
	for _, l := range m.leads {
		if l.OwnerID != f.OwnerID {
			continue
		}
		if len(wanted) > 0 && !wanted[l.ID] {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memLeads) CountByStatus(_ context.Context, ownerID string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, l := range m.leads {
		if l.OwnerID == ownerID {
			counts[l.Status]++
		}
	}
	return counts, nil
}

func (m *memLeads) TouchLastEmailSent(_ context.Context, ownerID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leads[id]; ok && l.OwnerID == ownerID {
		l.LastEmailSentAt = &at
		return nil
	}
	return entity.ErrNotFound
}

type memTemplates struct {
	mu        sync.Mutex
	templates map[string]*entity.EmailTemplate
}

func newMemTemplates() *memTemplates {
	return &memTemplates{templates: map[string]*entity.EmailTemplate{}}
}

func (m *memTemplates) Create(_ context.Context, t *entity.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}

func (m *memTemplates) FindByID(_ context.Context, ownerID, id string) (*entity.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.templates[id]; ok && t.OwnerID == ownerID {
		return t, nil
	}
	return nil, entity.ErrNotFound
}

func (m *memTemplates) Update(_ context.Context, t *entity.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}

func (m *memTemplates) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.templates[id]; ok && t.OwnerID == ownerID {
		delete(m.templates, id)
		return nil
	}
	return entity.ErrNotFound
}

func (m *memTemplates) List(_ context.Context, ownerID string) ([]*entity.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.EmailTemplate
	for _, t := range m.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memHistory struct {
	mu      sync.Mutex
	records map[string]*entity.EmailHistory
	updates int
}

func newMemHistory(records ...*entity.EmailHistory) *memHistory {
	m := &memHistory{records: map[string]*entity.EmailHistory{}}
	for _, h := range records {
		m.records[h.ID] = h
	}
	return m
}

func (m *memHistory) Create(_ context.Context, h *entity.EmailHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *h
	m.records[h.ID] = &cp
	return nil
}

func (m *memHistory) Update(_ context.Context, h *entity.EmailHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[h.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *h
	m.records[h.ID] = &cp
	m.updates++
	return nil
}

func (m *memHistory) FindByTrackID(_ context.Context, trackID string) (*entity.EmailHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.records {
		if h.TrackID == trackID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memHistory) List(_ context.Context, f entity.HistoryFilter) ([]*entity.EmailHistory, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.EmailHistory
	for _, h := range m.records {
		if h.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && h.Status != f.Status {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memHistory) CountPerDay(_ context.Context, ownerID string, since time.Time) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, h := range m.records {
		if h.OwnerID == ownerID && !h.CreatedAt.Before(since) {
			counts[h.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	return counts, nil
}

func (m *memHistory) Totals(_ context.Context, ownerID string) (entity.EmailTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var t entity.EmailTotals
	for _, h := range m.records {
		if h.OwnerID != ownerID {
			continue
		}
		t.Total++
		if h.OpenedAt != nil {
			t.Opened++
		}
		if h.Status == entity.EmailStatusClicked {
			t.Clicked++
		}
	}
	return t, nil
}

func (m *memHistory) get(id string) *entity.EmailHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/foundly/foundly/internal/model"
)

// MemoryStore is an in-process user and item store with the same semantics
// as Repository. It backs unit tests and local runs without Postgres.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*model.User // id → user
	email map[string]string      // normalized email → id
	items map[string]*model.Item // id → item
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*model.User),
		email: make(map[string]string),
		items: make(map[string]*model.Item),
	}
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// CreateUser stores a copy of user.
func (m *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.NormalizeEmail(user.Email)
	if _, ok := m.email[key]; ok {
		return ErrEmailExists
	}

	u := *user
	u.Email = key
	m.users[u.ID] = &u
	m.email[key] = u.ID
	return nil
}

// GetUserByID returns a copy of the user with the given ID.
func (m *MemoryStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail returns a copy of the user with the given email.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	id, ok := m.email[model.NormalizeEmail(email)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return m.GetUserByID(ctx, id)
}

// UpdateRefreshToken replaces the stored refresh token.
func (m *MemoryStore) UpdateRefreshToken(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.RefreshToken = token
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CreateItem stores a copy of item.
func (m *MemoryStore) CreateItem(_ context.Context, item *model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[item.ID] = cloneItem(item)
	return nil
}

// GetItemByID returns a copy of the item with the given ID.
func (m *MemoryStore) GetItemByID(_ context.Context, id string) (*model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneItem(item), nil
}

// DeleteItem removes an item.
func (m *MemoryStore) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

// ListItems mirrors Repository.ListItems.
func (m *MemoryStore) ListItems(_ context.Context, filter ItemFilter, offset, limit int) ([]*model.Item, int64, error) {
	if filter.Keywords != nil && len(filter.Keywords) == 0 {
		return []*model.Item{}, 0, nil
	}

	m.mu.RLock()
	matched := make([]*model.Item, 0, len(m.items))
	for _, item := range m.items {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *model.Item) int {
		if c := b.FoundTime.Compare(a.FoundTime); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	total := int64(len(matched))
	page := make([]*model.Item, 0, limit)
	for i := offset; i < len(matched) && len(page) < limit; i++ {
		page = append(page, cloneItem(matched[i]))
	}
	return page, total, nil
}

// MarkItemReturned mirrors Repository.MarkItemReturned.
func (m *MemoryStore) MarkItemReturned(_ context.Context, id, passengerID string, at time.Time) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if item.IsReturned() {
		return nil, ErrItemAlreadyReturned
	}
	item.MarkReturned(passengerID, at)
	return cloneItem(item), nil
}

func matchesFilter(item *model.Item, filter ItemFilter) bool {
	if filter.FoundFrom != nil && item.FoundTime.Before(*filter.FoundFrom) {
		return false
	}
	if filter.FoundTo != nil && item.FoundTime.After(*filter.FoundTo) {
		return false
	}
	if len(filter.Keywords) == 0 {
		return true
	}
	for _, kw := range item.Keywords {
		lower := strings.ToLower(kw)
		for _, want := range filter.Keywords {
			if strings.Contains(lower, strings.ToLower(want)) {
				return true
			}
		}
	}
	return false
}

func cloneItem(item *model.Item) *model.Item {
	cp := *item
	cp.Keywords = slices.Clone(item.Keywords)
	if item.ClaimedByPassengerID != nil {
		v := *item.ClaimedByPassengerID
		cp.ClaimedByPassengerID = &v
	}
	if item.ReturnedTime != nil {
		v := *item.ReturnedTime
		cp.ReturnedTime = &v
	}
	return &cp
}

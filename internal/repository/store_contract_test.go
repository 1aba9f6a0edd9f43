package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/testutil"
)

// store is the surface shared by Repository and MemoryStore.
type store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string) error
	CreateItem(ctx context.Context, item *model.Item) error
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, filter ItemFilter, offset, limit int) ([]*model.Item, int64, error)
	MarkItemReturned(ctx context.Context, id, passengerID string, at time.Time) (*model.Item, error)
}

var (
	_ store = (*Repository)(nil)
	_ store = (*MemoryStore)(nil)
)

// runStoreContract exercises behaviour both implementations must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) store) {
	t.Run("users", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		user := testutil.NewTestUser(t, model.RoleAgent)
		user.Email = "Agent.Smith@Example.com"
		if err := s.CreateUser(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}

		got, err := s.GetUserByEmail(ctx, "  agent.smith@example.COM ")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if got.ID != user.ID || got.Email != "agent.smith@example.com" || got.Role != model.RoleAgent {
			t.Errorf("unexpected user: %+v", got)
		}

		dup := testutil.NewTestUser(t, model.RolePassenger)
		dup.Email = "agent.smith@example.com"
		if err := s.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}

		if _, err := s.GetUserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("refresh token is column scoped", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		user := testutil.NewTestUser(t, model.RolePassenger)
		if err := s.CreateUser(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}

		if err := s.UpdateRefreshToken(ctx, user.ID, "tok-1"); err != nil {
			t.Fatalf("update refresh token: %v", err)
		}
		got, err := s.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if got.RefreshToken != "tok-1" {
			t.Errorf("RefreshToken = %q, want tok-1", got.RefreshToken)
		}
		if got.PasswordHash != user.PasswordHash {
			t.Errorf("password hash changed: %q", got.PasswordHash)
		}

		if err := s.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
			t.Fatalf("clear refresh token: %v", err)
		}
		got, _ = s.GetUserByID(ctx, user.ID)
		if got.RefreshToken != "" {
			t.Errorf("RefreshToken = %q, want empty", got.RefreshToken)
		}

		if err := s.UpdateRefreshToken(ctx, "missing", "x"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("items", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		agent := mustCreateUser(t, s, model.RoleAgent)
		passenger := mustCreateUser(t, s, model.RolePassenger)

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		ring := testutil.NewTestItem(t, agent.ID, base, "Gold RING", "jewelry")
		phone := testutil.NewTestItem(t, agent.ID, base.Add(time.Hour), "phone")
		percent := testutil.NewTestItem(t, agent.ID, base.Add(2*time.Hour), "100% cotton")
		for _, item := range []*model.Item{ring, phone, percent} {
			if err := s.CreateItem(ctx, item); err != nil {
				t.Fatalf("create item: %v", err)
			}
		}

		all, total, err := s.ListItems(ctx, ItemFilter{}, 0, 10)
		if err != nil {
			t.Fatalf("list items: %v", err)
		}
		if total != 3 || len(all) != 3 {
			t.Fatalf("got %d items (total %d), want 3", len(all), total)
		}
		if all[0].ID != percent.ID || all[2].ID != ring.ID {
			t.Errorf("items not ordered by found time descending")
		}

		second, total, err := s.ListItems(ctx, ItemFilter{}, 2, 2)
		if err != nil {
			t.Fatalf("list page 2: %v", err)
		}
		if total != 3 || len(second) != 1 || second[0].ID != ring.ID {
			t.Errorf("unexpected second page: total=%d len=%d", total, len(second))
		}

		tests := []struct {
			name   string
			filter ItemFilter
			want   []string
		}{
			{"case insensitive substring", ItemFilter{Keywords: []string{"ring"}}, []string{ring.ID}},
			{"any keyword", ItemFilter{Keywords: []string{"PHONE", "jewel"}}, []string{phone.ID, ring.ID}},
			{"literal percent", ItemFilter{Keywords: []string{"%"}}, []string{percent.ID}},
			{"literal underscore", ItemFilter{Keywords: []string{"_"}}, nil},
			{"empty keyword list", ItemFilter{Keywords: []string{}}, nil},
			{"date range excludes", ItemFilter{Keywords: []string{"ring"}, FoundFrom: timePtr(base.Add(time.Minute))}, nil},
			{"inclusive bounds", ItemFilter{FoundFrom: timePtr(base), FoundTo: timePtr(base.Add(time.Hour))}, []string{phone.ID, ring.ID}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, total, err := s.ListItems(ctx, tt.filter, 0, 10)
				if err != nil {
					t.Fatalf("list items: %v", err)
				}
				if int(total) != len(tt.want) || len(got) != len(tt.want) {
					t.Fatalf("got %d items (total %d), want %d", len(got), total, len(tt.want))
				}
				for i, id := range tt.want {
					if got[i].ID != id {
						t.Errorf("item %d = %s, want %s", i, got[i].ID, id)
					}
				}
			})
		}

		returned, err := s.MarkItemReturned(ctx, ring.ID, passenger.ID, base.Add(24*time.Hour))
		if err != nil {
			t.Fatalf("mark returned: %v", err)
		}
		if err := returned.CheckReturnInvariant(); err != nil || !returned.IsReturned() {
			t.Errorf("returned item inconsistent: %+v", returned)
		}
		if _, err := s.MarkItemReturned(ctx, ring.ID, passenger.ID, time.Now()); !errors.Is(err, ErrItemAlreadyReturned) {
			t.Errorf("expected ErrItemAlreadyReturned, got %v", err)
		}
		if _, err := s.MarkItemReturned(ctx, "missing", passenger.ID, time.Now()); !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound, got %v", err)
		}

		if err := s.DeleteItem(ctx, phone.ID); err != nil {
			t.Fatalf("delete item: %v", err)
		}
		if _, err := s.GetItemByID(ctx, phone.ID); !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound after delete, got %v", err)
		}
		if err := s.DeleteItem(ctx, phone.ID); !errors.Is(err, ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound on second delete, got %v", err)
		}
	})
}

func mustCreateUser(t *testing.T, s store, role model.Role) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, role)
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func timePtr(t time.Time) *time.Time { return &t }

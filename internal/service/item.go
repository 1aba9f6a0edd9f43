package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foundly/foundly/internal/metrics"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/repository"
)

// ItemService handles found-item business logic.
type ItemService struct {
	items   ItemStore
	users   UserStore
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(items ItemStore, users UserStore, recorder metrics.Recorder, logger *slog.Logger) *ItemService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemService{
		items:   items,
		users:   users,
		metrics: recorder,
		logger:  logger.With("component", "items"),
		now:     time.Now,
	}
}

// ItemPage is one page of items with its pagination metadata.
type ItemPage struct {
	Items      []*model.Item
	Pagination model.Page
}

// CreateItemInput defines input for logging a found item.
type CreateItemInput struct {
	Description   string
	Keywords      []string
	FoundTime     time.Time
	FoundLocation string
}

// MarkReturnedInput defines input for handing an item back.
type MarkReturnedInput struct {
	PassengerID  string
	ReturnedTime *time.Time
}

// List returns all items a page at a time, newest found first.
func (s *ItemService) List(ctx context.Context, page, limit int) (*ItemPage, error) {
	page, limit = normalizePage(page, limit)
	p := model.NewPage(0, page, limit)

	items, total, err := s.items.ListItems(ctx, repository.ItemFilter{}, p.Offset(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return &ItemPage{Items: items, Pagination: model.NewPage(total, page, limit)}, nil
}

// Create logs a found item on behalf of agentID.
func (s *ItemService) Create(ctx context.Context, agentID string, input CreateItemInput) (*model.Item, error) {
	now := s.now().UTC()
	item := &model.Item{
		ID:             generateULID(),
		Description:    strings.TrimSpace(input.Description),
		Keywords:       trimKeywords(input.Keywords),
		FoundTime:      input.FoundTime.UTC(),
		FoundLocation:  strings.TrimSpace(input.FoundLocation),
		Status:         model.ItemStatusFound,
		FoundByAgentID: agentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		s.logger.Error("failed to create item", "error", err, "agent_id", agentID)
		return nil, fmt.Errorf("%w: %w", ErrCreation, err)
	}

	s.metrics.IncItemCreated()
	s.logger.Info("item created", "item_id", item.ID, "agent_id", agentID)

	return item, nil
}

// Get returns a single item.
func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.items.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// Delete removes an item permanently.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.items.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.metrics.IncItemDeleted()
	s.logger.Info("item deleted", "item_id", id)
	return nil
}

// MarkReturned hands a found item back to a passenger.
func (s *ItemService) MarkReturned(ctx context.Context, id string, input MarkReturnedInput) (*model.Item, error) {
	claimant, err := s.users.GetUserByID(ctx, input.PassengerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidClaimant
		}
		return nil, fmt.Errorf("failed to load claimant: %w", err)
	}
	if claimant.Role != model.RolePassenger {
		return nil, ErrInvalidClaimant
	}

	at := s.now().UTC()
	if input.ReturnedTime != nil {
		at = input.ReturnedTime.UTC()
	}

	item, err := s.items.MarkItemReturned(ctx, id, claimant.ID, at)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return nil, ErrItemNotFound
		case errors.Is(err, repository.ErrItemAlreadyReturned):
			return nil, ErrItemAlreadyReturned
		}
		return nil, fmt.Errorf("failed to mark item returned: %w", err)
	}

	s.metrics.IncItemReturned()
	s.logger.Info("item returned", "item_id", id, "passenger_id", claimant.ID)
	return item, nil
}

// normalizePage applies pagination defaults and caps the limit.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = model.DefaultPage
	}
	if limit < 1 {
		limit = model.DefaultLimit
	}
	if limit > model.MaxLimit {
		limit = model.MaxLimit
	}
	return page, limit
}

// trimKeywords trims each keyword and drops empty ones.
func trimKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

package rooms

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rooms: make(map[string]*models.Room)}
}

// Create assigns a token unless the room already carries one.
func (r *InMemoryRepository) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := room.Clone()
	if c.Token == "" {
		c.Token = newToken()
		for r.rooms[c.Token] != nil {
			c.Token = newToken()
		}
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().UnixNano()
	}
	r.rooms[c.Token] = c
	return c.Clone(), nil
}

func (r *InMemoryRepository) Get(ctx context.Context, token string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return room.Clone(), nil
}

// ListFor returns the rooms username participates in, oldest first.
func (r *InMemoryRepository) ListFor(ctx context.Context, username string) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Room, 0)
	for _, room := range r.rooms {
		if room.IsParticipant(username) {
			out = append(out, room.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].Token < out[j].Token
	})
	return out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.Token]; !ok {
		return common.ErrNotFound
	}
	r.rooms[room.Token] = room.Clone()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[token]; !ok {
		return common.ErrNotFound
	}
	delete(r.rooms, token)
	return nil
}

// newToken derives a short room token from a random uuid. Replaced in tests.
var newToken = func() string {
	id := uuid.New()
	return id.String()[:8]
}

// internal/app/store/centerdir/store.go
package centerdir

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bridgeofhope/bridgehub/internal/app/store/kvstore"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Key is the devstore key holding the center list.
const Key = "bridge_of_hope_centers"

// Store is the directory of Bridge of Hope center entities.
type Store struct {
	kv *kvstore.Store
}

// New returns a store over the shared devstore.
func New(kv *kvstore.Store) *Store { return &Store{kv: kv} }

func (s *Store) load(ctx context.Context) ([]models.Center, error) {
	var centers []models.Center
	if _, err := s.kv.Load(ctx, Key, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}

// List returns all centers, oldest first.
func (s *Store) List(ctx context.Context) ([]models.Center, error) {
	centers, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(centers, func(i, j int) bool {
		return centers[i].CreatedAt.Before(centers[j].CreatedAt)
	})
	return centers, nil
}

// GetByCenterID returns the center with the given 8-digit id, or
// (nil, nil) when absent.
func (s *Store) GetByCenterID(ctx context.Context, centerID string) (*models.Center, error) {
	centers, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range centers {
		if centers[i].CenterID == centerID {
			return &centers[i], nil
		}
	}
	return nil, nil
}

// Add appends a center and returns it with its generated id.
func (s *Store) Add(ctx context.Context, centerID, name string) (*models.Center, error) {
	centers, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	c := models.Center{
		ID:        uuid.NewString(),
		CenterID:  centerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	centers = append(centers, c)
	if err := s.kv.Save(ctx, Key, centers); err != nil {
		return nil, err
	}
	return &c, nil
}

// Seed writes the sample center when the key is empty. Development
// convenience only.
func (s *Store) Seed(ctx context.Context) error {
	sample := []models.Center{
		{
			ID:        uuid.NewString(),
			CenterID:  "57890123",
			Name:      "Hope Rising Center",
			CreatedAt: time.Now().UTC(),
		},
	}
	_, err := s.kv.SaveIfAbsent(ctx, Key, sample)
	return err
}

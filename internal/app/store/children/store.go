// internal/app/store/children/store.go
package children

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bridgeofhope/bridgehub/internal/app/store/kvstore"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Key is the devstore key holding the child list.
const Key = "children"

// Store is the registry of children enrolled at centers.
type Store struct {
	kv *kvstore.Store
}

// New returns a store over the shared devstore.
func New(kv *kvstore.Store) *Store { return &Store{kv: kv} }

func (s *Store) load(ctx context.Context) ([]models.Child, error) {
	var kids []models.Child
	if _, err := s.kv.Load(ctx, Key, &kids); err != nil {
		return nil, err
	}
	return kids, nil
}

func byCreated(kids []models.Child) {
	sort.SliceStable(kids, func(i, j int) bool {
		return kids[i].CreatedAt.Before(kids[j].CreatedAt)
	})
}

// List returns all children, oldest record first.
func (s *Store) List(ctx context.Context) ([]models.Child, error) {
	kids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	byCreated(kids)
	return kids, nil
}

// ListByCenter returns the children enrolled at one center.
func (s *Store) ListByCenter(ctx context.Context, centerID string) ([]models.Child, error) {
	kids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := kids[:0]
	for _, c := range kids {
		if c.CenterID == centerID {
			out = append(out, c)
		}
	}
	byCreated(out)
	return out, nil
}

// GetBySponsorID returns the child linked to a sponsor, or (nil, nil)
// when the sponsor has no child yet.
func (s *Store) GetBySponsorID(ctx context.Context, sponsorID string) (*models.Child, error) {
	kids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range kids {
		if kids[i].SponsorID == sponsorID {
			return &kids[i], nil
		}
	}
	return nil, nil
}

// GetByChildID returns the child with the given 10-digit id, or
// (nil, nil) when absent.
func (s *Store) GetByChildID(ctx context.Context, childID string) (*models.Child, error) {
	kids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range kids {
		if kids[i].ChildID == childID {
			return &kids[i], nil
		}
	}
	return nil, nil
}

// Add appends a child record and returns it with its generated id.
func (s *Store) Add(ctx context.Context, child models.Child) (*models.Child, error) {
	kids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	child.ID = uuid.NewString()
	child.CreatedAt = time.Now().UTC()
	kids = append(kids, child)
	if err := s.kv.Save(ctx, Key, kids); err != nil {
		return nil, err
	}
	return &child, nil
}

// AssignSponsor links a sponsor to a child.
func (s *Store) AssignSponsor(ctx context.Context, childID, sponsorID string) error {
	kids, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range kids {
		if kids[i].ChildID == childID {
			kids[i].SponsorID = sponsorID
			return s.kv.Save(ctx, Key, kids)
		}
	}
	return nil
}

// Seed writes a sample sponsored child when the key is empty.
func (s *Store) Seed(ctx context.Context) error {
	sample := []models.Child{
		{
			ID:          uuid.NewString(),
			ChildID:     "1234567891",
			Name:        "Asha K.",
			DateOfBirth: "2015-06-12",
			CenterID:    "57890123",
			SponsorID:   "12345678",
			CreatedAt:   time.Now().UTC(),
		},
	}
	_, err := s.kv.SaveIfAbsent(ctx, Key, sample)
	return err
}

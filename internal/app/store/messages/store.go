// internal/app/store/messages/store.go
package messages

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bridgeofhope/bridgehub/internal/app/store/kvstore"
	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// Key is the devstore key holding the message list.
const Key = "messages"

// Store holds sponsor-child message threads, keyed by sponsor id.
type Store struct {
	kv *kvstore.Store
}

// New returns a store over the shared devstore.
func New(kv *kvstore.Store) *Store { return &Store{kv: kv} }

func (s *Store) load(ctx context.Context) ([]models.Message, error) {
	var msgs []models.Message
	if _, err := s.kv.Load(ctx, Key, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Thread returns a sponsor's messages, newest first.
func (s *Store) Thread(ctx context.Context, sponsorID string) ([]models.Message, error) {
	msgs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Message
	for _, m := range msgs {
		if m.SponsorID == sponsorID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RecentBySponsorIDs returns messages for any of the given sponsor
// threads created at or after since, newest first. Backs the
// missionary's recent-activity view for a center.
func (s *Store) RecentBySponsorIDs(ctx context.Context, sponsorIDs []string, since time.Time) ([]models.Message, error) {
	want := make(map[string]bool, len(sponsorIDs))
	for _, id := range sponsorIDs {
		want[id] = true
	}
	msgs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Message
	for _, m := range msgs {
		if want[m.SponsorID] && !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UnreadCount counts a sponsor's unread incoming messages, that is
// messages written to the sponsor that the sponsor has not yet viewed.
func (s *Store) UnreadCount(ctx context.Context, sponsorID string) (int, error) {
	msgs, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range msgs {
		if m.SponsorID == sponsorID && m.Direction == models.DirectionToSponsor && !m.Read {
			n++
		}
	}
	return n, nil
}

// Add appends a message, stamping its id and creation time.
func (s *Store) Add(ctx context.Context, msg models.Message) (*models.Message, error) {
	msgs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	msgs = append(msgs, msg)
	if err := s.kv.Save(ctx, Key, msgs); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkThreadRead marks every unread incoming message in a sponsor's
// thread as read. Called when the sponsor opens their thread.
func (s *Store) MarkThreadRead(ctx context.Context, sponsorID string) error {
	msgs, err := s.load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range msgs {
		m := &msgs[i]
		if m.SponsorID == sponsorID && m.Direction == models.DirectionToSponsor && !m.Read {
			m.Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.kv.Save(ctx, Key, msgs)
}

// Seed writes a sample two-message thread when the key is empty.
func (s *Store) Seed(ctx context.Context) error {
	now := time.Now().UTC()
	sample := []models.Message{
		{
			ID:        uuid.NewString(),
			SponsorID: "12345678",
			Text:      "Hello Asha! We are so glad to sponsor you. How is school going?",
			Direction: models.DirectionToChild,
			Read:      true,
			CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID:        uuid.NewString(),
			SponsorID: "12345678",
			Text:      "Thank you for your kind words! School is going well and I love my art class.",
			Direction: models.DirectionToSponsor,
			Read:      false,
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
	_, err := s.kv.SaveIfAbsent(ctx, Key, sample)
	return err
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soulease/guidance/internal/domain"
)

// moodEmojis maps the 1-5 mood scale to display emoji.
var moodEmojis = map[int]string{
	1: "😢",
	2: "😕",
	3: "😐",
	4: "🙂",
	5: "😊",
}

// MoodService keeps the mood journal: at most one entry per calendar day,
// with writes for today replacing any earlier entry for the same date.
type MoodService struct {
	Store domain.SessionStore
	now   func() time.Time
}

// NewMoodService constructs a MoodService.
func NewMoodService(store domain.SessionStore) MoodService {
	return MoodService{Store: store, now: time.Now}
}

// Upsert records today's mood. Mood must be on the 1-5 scale.
func (s MoodService) Upsert(ctx context.Context, session string, mood int, note string, gratitude bool) (domain.MoodEntry, error) {
	if mood < 1 || mood > 5 {
		return domain.MoodEntry{}, fmt.Errorf("%w: mood must be between 1 and 5", domain.ErrInvalidArgument)
	}

	entries, err := s.List(ctx, session)
	if err != nil {
		return domain.MoodEntry{}, err
	}

	today := s.now().UTC().Format("2006-01-02")
	entry := domain.MoodEntry{
		ID:        uuid.NewString(),
		Date:      today,
		Mood:      mood,
		Emoji:     moodEmojis[mood],
		Note:      note,
		Gratitude: gratitude,
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Date != today {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)

	if err := s.Store.PutJSON(ctx, moodKey(session), kept); err != nil {
		return domain.MoodEntry{}, err
	}
	return entry, nil
}

// List returns all journal entries, oldest first.
func (s MoodService) List(ctx context.Context, session string) ([]domain.MoodEntry, error) {
	entries := []domain.MoodEntry{}
	if _, err := s.Store.GetJSON(ctx, moodKey(session), 0, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

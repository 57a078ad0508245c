package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/soulease/guidance/internal/adapter/store/redis"
	"github.com/soulease/guidance/internal/domain"
)

func newMoodFixture(t *testing.T) (MoodService, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewMoodService(redisstore.New(rdb))
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestMoodUpsertAndList(t *testing.T) {
	svc, _ := newMoodFixture(t)
	ctx := context.Background()

	entry, err := svc.Upsert(ctx, "s1", 4, "productive day", true)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", entry.Date)
	assert.Equal(t, 4, entry.Mood)
	assert.Equal(t, "🙂", entry.Emoji)
	assert.True(t, entry.Gratitude)

	entries, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestMoodSameDayReplaced(t *testing.T) {
	svc, _ := newMoodFixture(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "s1", 2, "rough morning", false)
	require.NoError(t, err)
	later, err := svc.Upsert(ctx, "s1", 5, "turned around", false)
	require.NoError(t, err)

	entries, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, later.ID, entries[0].ID)
	assert.Equal(t, 5, entries[0].Mood)
}

func TestMoodDifferentDaysAppend(t *testing.T) {
	svc, clock := newMoodFixture(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "s1", 3, "", false)
	require.NoError(t, err)
	*clock = clock.Add(24 * time.Hour)
	_, err = svc.Upsert(ctx, "s1", 4, "", false)
	require.NoError(t, err)

	entries, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-06-01", entries[0].Date)
	assert.Equal(t, "2025-06-02", entries[1].Date)
}

func TestMoodValidation(t *testing.T) {
	svc, _ := newMoodFixture(t)
	for _, mood := range []int{0, -1, 6} {
		_, err := svc.Upsert(context.Background(), "s1", mood, "", false)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "mood=%d", mood)
	}
}

func TestMoodListEmpty(t *testing.T) {
	svc, _ := newMoodFixture(t)
	entries, err := svc.List(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

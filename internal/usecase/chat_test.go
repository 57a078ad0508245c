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
	"github.com/soulease/guidance/internal/service/quota"
)

func newChatFixture(t *testing.T, window int) (ChatService, *fakeClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	client := &fakeClient{configured: true, reply: "Wa alaikum assalam, how can I help?"}
	svc := NewChatService(client, redisstore.New(rdb), quota.NewWindow(30, time.Minute), window)
	return svc, client
}

func TestChatSendAndHistory(t *testing.T) {
	svc, _ := newChatFixture(t, 20)
	ctx := context.Background()

	reply, err := svc.Send(ctx, "s1", "scholar", "Assalamu alaikum")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatRoleAssistant, reply.Role)
	assert.NotEmpty(t, reply.ID)
	assert.Equal(t, "Wa alaikum assalam, how can I help?", reply.Content)

	history, err := svc.History(ctx, "s1", "scholar")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ChatRoleUser, history[0].Role)
	assert.Equal(t, "Assalamu alaikum", history[0].Content)
	assert.Equal(t, reply.ID, history[1].ID)
}

func TestChatPersonasIsolated(t *testing.T) {
	svc, _ := newChatFixture(t, 20)
	ctx := context.Background()

	_, err := svc.Send(ctx, "s1", "scholar", "question for the scholar")
	require.NoError(t, err)

	history, err := svc.History(ctx, "s1", "companion")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatWindowTrimmed(t *testing.T) {
	svc, client := newChatFixture(t, 4)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Send(ctx, "s1", "companion", "message")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, client.calls)

	history, err := svc.History(ctx, "s1", "companion")
	require.NoError(t, err)
	// Only the last two exchanges survive.
	require.Len(t, history, 4)
	assert.Equal(t, domain.ChatRoleUser, history[0].Role)
	assert.Equal(t, domain.ChatRoleAssistant, history[3].Role)
}

func TestChatUnknownPersona(t *testing.T) {
	svc, client := newChatFixture(t, 20)
	ctx := context.Background()

	_, err := svc.Send(ctx, "s1", "imam", "hello")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 0, client.calls)

	_, err = svc.History(ctx, "s1", "imam")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = svc.Clear(ctx, "s1", "imam")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestChatEmptyMessage(t *testing.T) {
	svc, client := newChatFixture(t, 20)
	_, err := svc.Send(context.Background(), "s1", "scholar", "   ")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	assert.Equal(t, 0, client.calls)
}

func TestChatNotConfigured(t *testing.T) {
	svc, client := newChatFixture(t, 20)
	client.configured = false
	_, err := svc.Send(context.Background(), "s1", "scholar", "hello")
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
	assert.Equal(t, 0, client.calls)
}

func TestChatEmptyReply(t *testing.T) {
	svc, client := newChatFixture(t, 20)
	client.reply = "   "
	ctx := context.Background()

	_, err := svc.Send(ctx, "s1", "scholar", "hello")
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))

	// Failed exchanges are not persisted.
	history, err := svc.History(ctx, "s1", "scholar")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatClear(t *testing.T) {
	svc, _ := newChatFixture(t, 20)
	ctx := context.Background()

	_, err := svc.Send(ctx, "s1", "counselor", "hello")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "s1", "counselor"))

	history, err := svc.History(ctx, "s1", "counselor")
	require.NoError(t, err)
	assert.Empty(t, history)
}

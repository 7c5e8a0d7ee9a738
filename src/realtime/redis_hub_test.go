package realtime

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisHub(t *testing.T) (*RedisHub, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	hub, err := NewRedisHubFromURL(context.Background(), "redis://"+srv.Addr(), nil)
	if err != nil {
		t.Fatalf("NewRedisHubFromURL failed: %v", err)
	}
	t.Cleanup(func() { _ = hub.Close() })
	return hub, srv
}

func TestRedisHub_FanOut(t *testing.T) {
	t.Parallel()

	hub, _ := newTestRedisHub(t)
	ctx := context.Background()

	first, err := hub.Subscribe(ctx, 1)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	t.Cleanup(first.Close)
	second, _ := hub.Subscribe(ctx, 1)
	t.Cleanup(second.Close)
	other, _ := hub.Subscribe(ctx, 2)
	t.Cleanup(other.Close)

	for _, payload := range []string{"a", "b"} {
		if err := hub.Publish(ctx, 1, mustEnvelope(t, EventReceiveMessage, payload)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	for _, sub := range []*Subscription{first, second} {
		env := expectEnvelope(t, sub, "a")
		if env.Event != EventReceiveMessage {
			t.Fatalf("expected %s, got %s", EventReceiveMessage, env.Event)
		}
		expectEnvelope(t, sub, "b")
	}
	expectNothing(t, other)
}

func TestRedisHub_UsesUserChannels(t *testing.T) {
	t.Parallel()

	hub, srv := newTestRedisHub(t)
	ctx := context.Background()

	sub, err := hub.Subscribe(ctx, 7)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	t.Cleanup(sub.Close)

	// A publisher outside the hub reaches the socket through the same channel name.
	external := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = external.Close() })
	if err := external.Publish(ctx, "user:7", `{"event":"receive_message","data":"from elsewhere"}`).Err(); err != nil {
		t.Fatalf("external publish failed: %v", err)
	}
	expectEnvelope(t, sub, "from elsewhere")

	// Malformed frames are skipped, not fatal to the subscription.
	_ = external.Publish(ctx, "user:7", "not json").Err()
	_ = hub.Publish(ctx, 7, mustEnvelope(t, EventReceiveMessage, "after garbage"))
	expectEnvelope(t, sub, "after garbage")
}

func TestRedisHub_CloseSubscription(t *testing.T) {
	t.Parallel()

	hub, _ := newTestRedisHub(t)
	sub, err := hub.Subscribe(context.Background(), 3)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sub.Close()
	for range sub.C {
	}
}

func TestNewRedisHubFromURL_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisHubFromURL(context.Background(), "::not a url::", nil); err == nil {
		t.Fatal("expected a parse error")
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func mustEnvelope(t *testing.T, event string, data any) Envelope {
	t.Helper()
	env, err := NewEnvelope(event, data)
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}
	return env
}

func expectEnvelope(t *testing.T, sub *Subscription, want string) Envelope {
	t.Helper()
	select {
	case env, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription closed")
		}
		var got string
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if got != want {
			t.Fatalf("expected payload %q, got %q", want, got)
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
	return Envelope{}
}

func expectNothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case env, ok := <-sub.C:
		if ok {
			t.Fatalf("expected no delivery, got %#v", env)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryHub_FanOut(t *testing.T) {
	t.Parallel()

	hub := NewMemoryHub()
	t.Cleanup(func() { _ = hub.Close() })
	ctx := context.Background()

	first, _ := hub.Subscribe(ctx, 1)
	second, _ := hub.Subscribe(ctx, 1)
	other, _ := hub.Subscribe(ctx, 2)
	if hub.Subscribers(1) != 2 {
		t.Fatalf("expected 2 subscribers for user 1, got %d", hub.Subscribers(1))
	}

	for _, payload := range []string{"a", "b"} {
		if err := hub.Publish(ctx, 1, mustEnvelope(t, EventReceiveMessage, payload)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	for _, sub := range []*Subscription{first, second} {
		expectEnvelope(t, sub, "a")
		expectEnvelope(t, sub, "b")
	}
	expectNothing(t, other)
}

func TestMemoryHub_PublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewMemoryHub()
	if err := hub.Publish(context.Background(), 9, mustEnvelope(t, EventReceiveMessage, "lost")); err != nil {
		t.Fatalf("expected publish to an empty channel to succeed, got %v", err)
	}
}

func TestMemoryHub_Close(t *testing.T) {
	t.Parallel()

	hub := NewMemoryHub()
	ctx := context.Background()
	sub, _ := hub.Subscribe(ctx, 1)
	kept, _ := hub.Subscribe(ctx, 1)

	sub.Close()
	sub.Close()
	if _, ok := <-sub.C; ok {
		t.Fatal("expected closed channel after Close")
	}
	if hub.Subscribers(1) != 1 {
		t.Fatalf("expected 1 remaining subscriber, got %d", hub.Subscribers(1))
	}

	_ = hub.Publish(ctx, 1, mustEnvelope(t, EventReceiveMessage, "still here"))
	expectEnvelope(t, kept, "still here")

	_ = hub.Close()
	if _, ok := <-kept.C; ok {
		t.Fatal("expected hub Close to close remaining subscriptions")
	}
	kept.Close()
}

func TestMemoryHub_DropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	hub := NewMemoryHub()
	t.Cleanup(func() { _ = hub.Close() })
	ctx := context.Background()
	sub, _ := hub.Subscribe(ctx, 1)
	env := mustEnvelope(t, EventReceiveMessage, "x")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriptionBuffer+10; i++ {
			_ = hub.Publish(ctx, 1, env)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	if len(sub.C) != subscriptionBuffer {
		t.Fatalf("expected buffer to hold %d envelopes, got %d", subscriptionBuffer, len(sub.C))
	}
}

func TestUserRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    uint
		wantErr bool
	}{
		{in: `12`, want: 12},
		{in: `"12"`, want: 12},
		{in: `"abc"`, wantErr: true},
		{in: `0`, wantErr: true},
		{in: `-3`, wantErr: true},
	}
	for _, tc := range tests {
		var ref userRef
		err := json.Unmarshal([]byte(tc.in), &ref)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.in)
			}
			continue
		}
		if err != nil || uint(ref) != tc.want {
			t.Fatalf("%s: expected %d, got %d (%v)", tc.in, tc.want, ref, err)
		}
	}
}

func TestChannelKey(t *testing.T) {
	t.Parallel()

	if got := channelKey(42); got != "user:42" {
		t.Fatalf("expected user:42, got %s", got)
	}
}

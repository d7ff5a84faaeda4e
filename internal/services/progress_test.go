package services

import (
	"context"
	"testing"
	"time"

	"github.com/echoscribe/echoscribe-backend/internal/sse"
)

func progressFixture(t *testing.T, channel string) (ProgressService, *sse.Client) {
	t.Helper()
	log := testLogger(t)
	hub := sse.NewHub(log)
	client := hub.NewClient()
	hub.AddChannel(client, channel)
	return NewProgressService(log, hub), client
}

func collectMessages(client *sse.Client, d time.Duration) []sse.Message {
	deadline := time.After(d)
	var msgs []sse.Message
	for {
		select {
		case m := <-client.Outbound:
			msgs = append(msgs, m)
		case <-deadline:
			return msgs
		}
	}
}

func waitForEvent(t *testing.T, client *sse.Client, want sse.Event) sse.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case m := <-client.Outbound:
			if m.Event == want {
				return m
			}
		case <-timeout:
			t.Fatalf("no %s event within 2s", want)
		}
	}
}

func percentOf(t *testing.T, m sse.Message) int {
	t.Helper()
	data, ok := m.Data.(map[string]any)
	if !ok {
		t.Fatalf("event data is %T, want map", m.Data)
	}
	p, ok := data["percent"].(int)
	if !ok {
		t.Fatalf("event carries no integer percent: %+v", data)
	}
	return p
}

func TestProgressStaysBelowFullUntilComplete(t *testing.T) {
	channel := "transcription:talk"
	svc, client := progressFixture(t, channel)

	handle := svc.Start(context.Background(), channel)

	msgs := collectMessages(client, 1300*time.Millisecond)
	if len(msgs) == 0 {
		t.Fatalf("expected progress events while the run is outstanding")
	}
	for _, m := range msgs {
		if m.Event != sse.EventTranscriptionProgress {
			t.Fatalf("unexpected %s event before completion", m.Event)
		}
		if p := percentOf(t, m); p >= 100 {
			t.Errorf("progress reported %d before completion", p)
		}
	}

	handle.Complete(map[string]any{"filename": "talk.mp3"})
	done := waitForEvent(t, client, sse.EventTranscriptionCompleted)
	if p := percentOf(t, done); p != 100 {
		t.Errorf("completion percent = %d, want 100", p)
	}
}

func TestProgressCeilingClamped(t *testing.T) {
	// 20 steps of 7 would pass 100 unclamped; every broadcast must stay
	// at or below the ceiling.
	channel := "transcription:long"
	svc, client := progressFixture(t, channel)

	handle := svc.Start(context.Background(), channel)
	defer handle.Fail("done")

	msgs := collectMessages(client, 1300*time.Millisecond)
	for _, m := range msgs {
		if p := percentOf(t, m); p > progressCeiling {
			t.Errorf("progress %d exceeds ceiling %d", p, progressCeiling)
		}
	}
}

func TestSupersededRunEmitsNoTerminalEvent(t *testing.T) {
	channel := "transcription:retry"
	svc, client := progressFixture(t, channel)
	ctx := context.Background()

	first := svc.Start(ctx, channel)
	second := svc.Start(ctx, channel)

	// The superseded handle must be inert: neither outcome may reach
	// clients once a newer run owns the channel.
	first.Complete(map[string]any{"stale": true})
	first.Fail("stale failure")

	for _, m := range collectMessages(client, 200*time.Millisecond) {
		if m.Event != sse.EventTranscriptionProgress {
			t.Fatalf("stale terminal event %s leaked after supersession", m.Event)
		}
	}

	second.Fail("provider unavailable")
	failed := waitForEvent(t, client, sse.EventTranscriptionFailed)
	data, ok := failed.Data.(map[string]any)
	if !ok || data["message"] != "provider unavailable" {
		t.Fatalf("failure payload = %+v, want the live run's message", failed.Data)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wikiforge/requestwiki/pkg/identity"
)

func TestNopDiscards(t *testing.T) {
	if err := Nop().Publish(context.Background(), Event{Type: EventSubmitted}); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestNotifierFuncDelegates(t *testing.T) {
	var got Event
	fn := NotifierFunc(func(_ context.Context, event Event) error {
		got = event
		return nil
	})
	want := Event{Type: EventDeclined, RequestID: 9, Reason: "Too vague."}
	if err := fn.Publish(context.Background(), want); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got != want {
		t.Errorf("delegated event = %+v, want %+v", got, want)
	}
}

func TestEventJSONShape(t *testing.T) {
	event := Event{
		Type:      EventApproved,
		RequestID: 12,
		Sitename:  "Song Contest Wiki",
		Actor:     identity.Ref{ID: 42, Name: "Reviewer"},
		Reason:    "Welcome aboard.",
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["type"] != "approved" {
		t.Errorf("type = %v", decoded["type"])
	}
	if decoded["requestId"] != float64(12) {
		t.Errorf("requestId = %v", decoded["requestId"])
	}
	actor, _ := decoded["actor"].(map[string]any)
	if actor["name"] != "Reviewer" {
		t.Errorf("actor = %v", decoded["actor"])
	}
}

func TestEventJSONOmitsEmptyReason(t *testing.T) {
	payload, err := json.Marshal(Event{Type: EventCommented, RequestID: 1})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["reason"]; ok {
		t.Error("empty reason serialized")
	}
	if _, ok := decoded["sitename"]; ok {
		t.Error("empty sitename serialized")
	}
}

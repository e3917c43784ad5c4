package audit

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/request"
)

func TestRequestCreatedWritesEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	req := request.New(identity.Ref{ID: 7, Name: "Requester"}, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	req.ID = 12
	req.Sitename = "Song Contest Wiki"
	req.Language = "en"
	req.Private = true

	entryID := logger.RequestCreated(req, "A wiki about song contests.")
	if entryID == "" {
		t.Fatal("entry id empty")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal entry: %v\n%s", err, buf.String())
	}

	if entry["entry"] != entryID {
		t.Errorf("entry = %v, want %v", entry["entry"], entryID)
	}
	if entry["type"] != "request" {
		t.Errorf("type = %v", entry["type"])
	}
	if entry["performer"] != "Requester" {
		t.Errorf("performer = %v", entry["performer"])
	}
	if entry["sitename"] != "Song Contest Wiki" {
		t.Errorf("sitename = %v", entry["sitename"])
	}
	if entry["private"] != true {
		t.Errorf("private = %v", entry["private"])
	}
	if entry["request"] != float64(12) {
		t.Errorf("request = %v", entry["request"])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	if got := logger.RequestCreated(&request.WikiRequest{}, ""); got != "" {
		t.Errorf("nil logger returned entry id %q", got)
	}
}

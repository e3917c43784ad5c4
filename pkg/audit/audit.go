// Package audit records the durable log entries the form layer emits.
// Only initial creation is logged; edits and review decisions already
// leave their trace on the request's comment thread.
package audit

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wikiforge/requestwiki/pkg/request"
)

// Logger writes structured audit entries.
type Logger struct {
	log zerolog.Logger
}

// New creates a Logger writing JSON entries to w.
func New(w io.Writer) *Logger {
	return &Logger{log: zerolog.New(w).With().Timestamp().Logger()}
}

// NewWithLogger wraps an existing zerolog logger.
func NewWithLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

// RequestCreated records one "request" entry for a newly saved wiki
// request, attributed to the requester. It returns the entry id.
func (l *Logger) RequestCreated(req *request.WikiRequest, reason string) string {
	if l == nil {
		return ""
	}
	entryID := uuid.NewString()
	l.log.Info().
		Str("entry", entryID).
		Str("type", "request").
		Str("performer", req.Requester.Name).
		Int64("performerId", req.Requester.ID).
		Str("sitename", req.Sitename).
		Str("language", req.Language).
		Bool("private", req.Private).
		Int64("request", req.ID).
		Str("comment", reason).
		Msg("wiki requested")
	return entryID
}

package events

import (
	"context"

	"github.com/robinjoseph08/golib/logger"
)

// ScanProgress is published once at scan start, once per completed folder,
// and once at scan end.
const ScanProgress = "scan.progress"

// Progress event types carried by ScanProgressPayload.
const (
	ProgressStarted = "started"
	ProgressUpdated = "updated"
	ProgressEnded   = "ended"
)

// ScanProgressPayload is the payload published under ScanProgress. Path is
// empty for the started and ended events.
type ScanProgressPayload struct {
	Path        string `json:"path"`
	LibraryName string `json:"library_name"`
	EventType   string `json:"event_type"`
}

// Sink receives pipeline events. Implementations must be safe for concurrent
// use; publishes are fire-and-forget and never acknowledged.
type Sink interface {
	Publish(ctx context.Context, name string, payload any)
}

// LogSink writes every event to the context logger. It is the sink the CLI
// uses when no other consumer is attached.
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, name string, payload any) {
	data := logger.Data{"event": name}
	if p, ok := payload.(ScanProgressPayload); ok {
		data["path"] = p.Path
		data["library"] = p.LibraryName
		data["event_type"] = p.EventType
	}
	logger.FromContext(ctx).Info("event published", data)
}

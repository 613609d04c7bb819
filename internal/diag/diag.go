// Package diag defines the diagnostics sink pipeline stages report
// data-quality issues through. Stages receive a Sink explicitly instead of
// sharing a process-wide logger.
package diag

import (
	"sync"

	"github.com/rs/zerolog"
)

// Fields carries structured context for a diagnostic message.
type Fields map[string]interface{}

// Sink receives warnings and errors from pipeline stages. Warnings cover
// degraded cells (unparsable dates, malformed amounts); errors accompany
// fatal conditions the stage is about to return.
type Sink interface {
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

type logSink struct {
	log zerolog.Logger
}

// NewLogSink returns a Sink backed by the given zerolog logger.
func NewLogSink(log zerolog.Logger) Sink {
	return &logSink{log: log}
}

func (s *logSink) Warn(msg string, fields Fields) {
	emit(s.log.Warn(), msg, fields)
}

func (s *logSink) Error(msg string, fields Fields) {
	emit(s.log.Error(), msg, fields)
}

func emit(e *zerolog.Event, msg string, fields Fields) {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

type nopSink struct{}

func (nopSink) Warn(string, Fields)  {}
func (nopSink) Error(string, Fields) {}

// Nop returns a Sink that discards everything.
func Nop() Sink { return nopSink{} }

// Entry is one message captured by a Recorder.
type Entry struct {
	Level  string
	Msg    string
	Fields Fields
}

// Recorder is a Sink that captures messages in memory for assertions.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Warn(msg string, fields Fields) {
	r.record("warn", msg, fields)
}

func (r *Recorder) Error(msg string, fields Fields) {
	r.record("error", msg, fields)
}

func (r *Recorder) record(level, msg string, fields Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: fields})
}

// Entries returns a copy of the captured messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Warnings returns only the captured warning messages.
func (r *Recorder) Warnings() []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == "warn" {
			out = append(out, e)
		}
	}
	return out
}

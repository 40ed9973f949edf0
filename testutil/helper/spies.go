package helper

import (
	"sync"
	"time"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// LoggerSpy implements librarystore.Logger and records every call for assertions.
type LoggerSpy struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

func (s *LoggerSpy) record(level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Entries returns a copy of all captured log calls.
func (s *LoggerSpy) Entries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]LogEntry(nil), s.entries...)
}

// HasEntryWithLevel reports whether any captured call used the given level.
func (s *LoggerSpy) HasEntryWithLevel(level string) bool {
	for _, entry := range s.Entries() {
		if entry.Level == level {
			return true
		}
	}

	return false
}

// MetricsCollectorSpy implements librarystore.MetricsCollector and records
// every call for assertions.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	Durations map[string][]time.Duration
	Counters  map[string]int
	Values    map[string][]float64
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		Durations: make(map[string][]time.Duration),
		Counters:  make(map[string]int),
		Values:    make(map[string][]float64),
	}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, _ map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Durations[metric] = append(s.Durations[metric], duration)
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, _ map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Counters[metric]++
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, _ map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Values[metric] = append(s.Values[metric], value)
}

// CounterCount returns how often the given counter was incremented.
func (s *MetricsCollectorSpy) CounterCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Counters[metric]
}

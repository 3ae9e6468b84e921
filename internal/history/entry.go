package history

import "time"

// Entry indexes a single captured exchange.
type Entry struct {
	ID           int64
	RequestID    string
	Method       string
	URL          string
	StatusCode   int
	Duration     time.Duration
	RequestSize  int64
	ResponseSize int64
	ArchivePath  string // resolved .har path, once saved
	Timestamp    time.Time
}

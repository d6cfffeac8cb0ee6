package logchan

import "time"

const (
	// DefaultWriteTimeout bounds a single frame write to a slow client.
	DefaultWriteTimeout = 10 * time.Second

	// ResultType tags the terminal payload pushed to detached clients.
	ResultType = "result"
)

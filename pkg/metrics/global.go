package metrics

import (
	"context"
	"fmt"
	"sync"
)

// The shared collector gives the package-level API one buffer and one
// session identifier for the whole process, matching what callers would get
// from a single long-lived Collector.
var (
	sharedCollector *Collector
	sharedOnce      sync.Once

	shutdownOnce sync.Once
)

// Shared returns the process-wide collector, creating it on first use.
func Shared() *Collector {
	sharedOnce.Do(func() {
		sharedCollector = NewCollector()
	})
	return sharedCollector
}

// Add records one event on the shared collector. All recorded events are
// submitted together when Shutdown runs.
//
// Do not rely on thread safety of this method.
func Add(projectNumber int64, name string, attributes map[string]any) {
	Shared().Add(projectNumber, name, attributes)
}

// Shutdown submits everything the shared collector has buffered. It runs at
// most once per process and converts every failure, panics included, into a
// log record so a metrics problem can never affect process exit. Register it
// at program entry:
//
//	defer metrics.Shutdown()
func Shutdown() {
	shutdownOnce.Do(func() {
		flush(Shared())
	})
}

// flush is the swallow-and-log boundary around submission.
func flush(c *Collector) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic during metrics submission", "panic", fmt.Sprint(r))
		}
	}()
	if err := c.Submit(context.Background()); err != nil {
		c.logger.Error("Failed to submit usage metrics", "error", err)
	}
}

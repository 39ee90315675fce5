package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Cleaner is anything with a bulk expiry pass.
type Cleaner interface {
	Clean() int
}

// RunJanitor calls Clean on every cleaner once per interval until ctx is
// done. A non-positive interval returns immediately; lazy expiry on Get
// still applies.
func RunJanitor(ctx context.Context, interval time.Duration, cleaners ...Cleaner) {
	if interval <= 0 || len(cleaners) == 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, c := range cleaners {
				removed += c.Clean()
			}
			if removed > 0 {
				log.Debugf("cache janitor removed %d expired entries", removed)
			}
		}
	}
}

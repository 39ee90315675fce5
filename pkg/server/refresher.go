package server

import (
	"context"
	"time"
)

// runRefresher rebuilds once per interval until ctx is done. Failures are
// logged by rebuild and the previous snapshot keeps serving.
func (s *Server) runRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.source == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.rebuild(ctx); err == nil {
				s.logger.Debug("Refreshed index", "records", s.completer.Stats()["records"])
			}
		}
	}
}

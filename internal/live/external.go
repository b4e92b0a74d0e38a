package live

import (
	"context"
	"time"
)

// VersionFunc reports a counter that moves when another process writes.
type VersionFunc func(ctx context.Context) (int64, error)

// WatchExternal polls version every interval and publishes a commit touching
// every collection whenever it moves. It returns when ctx is done.
//
// Writes made in this process are already announced by the services; this
// only covers other processes sharing the database file.
func WatchExternal(ctx context.Context, hub *Hub, version VersionFunc, interval time.Duration) error {
	log := hub.log.WithField("watch", "external")

	last, err := version(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current, err := version(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.WithError(err).Warn("reading data version failed")
				continue
			}
			if current == last {
				continue
			}
			last = current
			log.WithField("version", current).Debug("external write detected")
			hub.Publish(NewCommit(Boards, Columns, Cards))
		}
	}
}

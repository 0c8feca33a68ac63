package repository

import (
	"context"
	"fmt"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

const defaultRecentActivities = 10

// Publisher receives every activity after it is persisted.
type Publisher interface {
	Publish(models.Activity)
}

// ActivityLogger keeps a bounded, most-recent-first activity feed.
type ActivityLogger struct {
	*base
	limit int
	pub   Publisher
}

// Log stamps entry with an id and timestamp, prepends it and drops the tail past the limit.
func (a *ActivityLogger) Log(ctx context.Context, entry models.Activity) (models.Activity, error) {
	entry.ID = a.ids.Next()
	entry.Timestamp = a.now().UTC()

	key := a.store.Key(storage.NSActivities)
	_, _, err := mutateOr(ctx, a.store, key, []models.Activity{}, func(feed *[]models.Activity) error {
		next := make([]models.Activity, 0, min(len(*feed)+1, a.limit))
		next = append(next, entry)
		next = append(next, *feed...)
		if len(next) > a.limit {
			next = next[:a.limit]
		}
		*feed = next
		return nil
	})
	if err != nil {
		return models.Activity{}, fmt.Errorf("log activity: %w", err)
	}

	a.log.WithField("type", entry.Type).Debug(entry.Message)
	if a.pub != nil {
		a.pub.Publish(entry)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (a *ActivityLogger) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = defaultRecentActivities
	}
	feed, _, err := storage.GetOr(ctx, a.store, a.store.Key(storage.NSActivities), []models.Activity{})
	if err != nil {
		return nil, err
	}
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

func (a *ActivityLogger) record(ctx context.Context, typ models.ActivityType, message, details string) error {
	_, err := a.Log(ctx, models.Activity{Type: typ, Message: message, Details: details})
	return err
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"intentguard/internal/logger"
	"intentguard/internal/models"

	"github.com/google/uuid"
)

// DefaultRecentNotifications bounds the in-memory notification feed.
const DefaultRecentNotifications = 50

// Notifier surfaces a transient message to the operator. Delivery is best
// effort and never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// NotificationStore persists notifications for later review.
type NotificationStore interface {
	Append(ctx context.Context, n models.Notification) error
	List(ctx context.Context, from, to time.Time, level string) ([]models.Notification, error)
}

// Publisher fans notifications out to an external subscriber.
type Publisher interface {
	Publish(subject string, payload any) error
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// NotificationCenter is the single Notifier of the process: it keeps a
// bounded recent feed, persists every notification and optionally publishes it.
type NotificationCenter struct {
	store     NotificationStore
	publisher Publisher
	subject   string
	log       *logger.Logger
	now       func() time.Time

	mu     sync.RWMutex
	recent *ring[models.Notification]
}

func NewNotificationCenter(store NotificationStore, recentCap int, log *logger.Logger) *NotificationCenter {
	if recentCap <= 0 {
		recentCap = DefaultRecentNotifications
	}
	return &NotificationCenter{
		store:  store,
		log:    log.Component("notifications"),
		now:    time.Now,
		recent: newRing[models.Notification](recentCap),
	}
}

// WithPublisher enables fan-out of every notification to subject.
func (c *NotificationCenter) WithPublisher(p Publisher, subject string) *NotificationCenter {
	c.publisher = p
	c.subject = subject
	return c
}

func (c *NotificationCenter) Notify(ctx context.Context, n models.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now().UTC()
	}
	if !n.Level.Valid() {
		n.Level = models.NotifyInfo
	}

	c.mu.Lock()
	c.recent.push(n)
	c.mu.Unlock()

	c.logNotification(n)

	if c.store != nil {
		if err := c.store.Append(ctx, n); err != nil {
			c.log.Warnw("notification_persist_failed", "id", n.ID, "err", err)
		}
	}
	if c.publisher != nil {
		if err := c.publisher.Publish(c.subject, n); err != nil {
			c.log.Warnw("notification_publish_failed", "id", n.ID, "subject", c.subject, "err", err)
		}
	}
}

func (c *NotificationCenter) logNotification(n models.Notification) {
	kv := []any{"id", n.ID, "title", n.Title, "source", n.Source}
	switch n.Level {
	case models.NotifyError:
		c.log.Errorw("notification", kv...)
	case models.NotifyWarning:
		c.log.Warnw("notification", kv...)
	default:
		c.log.Infow("notification", kv...)
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0 returns all kept.
func (c *NotificationCenter) Recent(limit int) []models.Notification {
	c.mu.RLock()
	all := c.recent.values()
	c.mu.RUnlock()

	out := make([]models.Notification, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// List queries persisted notifications by time range and level.
func (c *NotificationCenter) List(ctx context.Context, f NotificationFilter) ([]models.Notification, error) {
	from, to, level, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	if c.store == nil {
		return []models.Notification{}, nil
	}
	return c.store.List(ctx, from, to, level)
}

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeLevel(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func normalizeAndValidateFilter(f NotificationFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, normalizeLevel(f.Level), nil
}

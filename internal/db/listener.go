package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/jackc/pgx/v5"
)

// Publisher receives decoded change notifications.
type Publisher interface {
	Publish(e feed.Event) int
}

// DefaultChannel is the channel the row triggers notify unless the database
// setting bdc.feed_channel names another.
const DefaultChannel = "bdc_changes"

const triggerChannelQuery = `SELECT coalesce(nullif(current_setting('bdc.feed_channel', true), ''), '` + DefaultChannel + `')`

// Listener holds one pooled connection on LISTEN and republishes every
// notification on Channel. Notifications are produced by the row triggers in
// db/migrations.
type Listener struct {
	DB             *Postgres
	Channel        string
	ReconnectDelay time.Duration
	Publisher      Publisher
	Logger         *slog.Logger
}

// Run listens until ctx is cancelled, reconnecting after connection loss.
func (l Listener) Run(ctx context.Context) error {
	if l.Channel == "" {
		return errors.New("listener channel is required")
	}
	delay := l.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	for resync := false; ; resync = true {
		err := l.listen(ctx, resync)
		if ctx.Err() != nil {
			return nil
		}
		l.Logger.Warn("change feed connection lost", "channel", l.Channel, "err", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (l Listener) listen(ctx context.Context, resync bool) error {
	conn, err := l.DB.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer func() {
		unlistenCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.Exec(unlistenCtx, "UNLISTEN *")
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.Channel, err)
	}
	l.Logger.Info("change feed listening", "channel", l.Channel)
	var triggerChannel string
	if err := conn.QueryRow(ctx, triggerChannelQuery).Scan(&triggerChannel); err != nil {
		l.Logger.Warn("could not read trigger channel", "err", err)
	} else if triggerChannel != l.Channel {
		l.Logger.Error("store triggers notify a different channel; views will not update",
			"listening", l.Channel, "triggers", triggerChannel)
	}
	if resync {
		matched := Resync(l.Publisher)
		l.Logger.Info("change feed resynced", "channel", l.Channel, "subscribers", matched)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		ev, err := ParseNotification(n.Payload)
		if err != nil {
			l.Logger.Warn("dropping malformed change notification", "payload", n.Payload, "err", err)
			continue
		}
		matched := l.Publisher.Publish(ev)
		l.Logger.Debug("change notification", "table", ev.Table, "op", ev.Op, "date", ev.Date, "subscribers", matched)
	}
}

// Resync invalidates every subscription on every table. Notifications sent
// while no connection was listening are gone, so views must refetch.
func Resync(p Publisher) int {
	matched := 0
	for _, t := range feed.Tables {
		matched += p.Publish(feed.Event{Table: t, Op: feed.OpResync})
	}
	return matched
}

// ParseNotification decodes a trigger payload such as
// {"table":"bdc_shifts","op":"UPDATE","date":"2026-10-19"}.
func ParseNotification(payload string) (feed.Event, error) {
	var ev feed.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("decode notification: %w", err)
	}
	if ev.Table == "" {
		return ev, errors.New("notification without table")
	}
	return ev, nil
}

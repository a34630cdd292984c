package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventcal/internal/database"
	"github.com/klokku/eventcal/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	EnsureSchema(ctx context.Context) error
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	StoreEvent(ctx context.Context, event Event) (int64, error)
	// UpdateEvent reports false when no event with event.Id exists.
	UpdateEvent(ctx context.Context, event Event) (bool, error)
	// DeleteEvent reports false when no event with id exists.
	DeleteEvent(ctx context.Context, id int64) (bool, error)
}

// RepositoryImpl keeps events in the Postgres "events" table. Every call acquires its own pooled
// connection and releases it before returning.
type RepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{pool: pool}
}

func (r *RepositoryImpl) EnsureSchema(ctx context.Context) (err error) {
	defer metrics.ObserveStoreOperation("ensure_schema", time.Now(), &err)

	if err = database.EnsureSchema(ctx, r.pool.Config().ConnString()); err != nil {
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListEvents(ctx context.Context) (events []Event, err error) {
	defer metrics.ObserveStoreOperation("list", time.Now(), &err)

	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `SELECT id, title, date_time, has_reminder, reminder_minutes
			  FROM events
			  ORDER BY date_time, id`

	rows, err := conn.Query(ctx, query)
	if err != nil {
		err = fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events = make([]Event, 0, 16)
	for rows.Next() {
		var e Event
		if err = rows.Scan(&e.Id, &e.Title, &e.DateTime, &e.HasReminder, &e.ReminderMinutes); err != nil {
			err = fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		e.DateTime = e.DateTime.UTC()
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("could not read events: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, id int64) (Event, error) {
	var err error
	defer metrics.ObserveStoreOperation("get", time.Now(), &err)

	conn, err := r.acquire(ctx)
	if err != nil {
		return Event{}, err
	}
	defer conn.Release()

	query := `SELECT id, title, date_time, has_reminder, reminder_minutes FROM events WHERE id = $1`

	var e Event
	err = conn.QueryRow(ctx, query, id).Scan(&e.Id, &e.Title, &e.DateTime, &e.HasReminder, &e.ReminderMinutes)
	if errors.Is(err, pgx.ErrNoRows) {
		// absence is an answer, not a storage failure
		err = nil
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		err = fmt.Errorf("could not query event %d: %w", id, err)
		log.Error(err)
		return Event{}, err
	}
	e.DateTime = e.DateTime.UTC()
	return e, nil
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) (id int64, err error) {
	defer metrics.ObserveStoreOperation("create", time.Now(), &err)

	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	query := `INSERT INTO events (
                    title,
                    date_time,
                    has_reminder,
                    reminder_minutes
				) VALUES ($1, $2, $3, $4) RETURNING id`

	err = conn.QueryRow(ctx, query, event.Title, event.DateTime, event.HasReminder, event.ReminderMinutes).Scan(&id)
	if err != nil {
		err = fmt.Errorf("could not insert event: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, event Event) (found bool, err error) {
	defer metrics.ObserveStoreOperation("update", time.Now(), &err)

	conn, err := r.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	query := `UPDATE events
			  SET title = $1, date_time = $2, has_reminder = $3, reminder_minutes = $4
			  WHERE id = $5`

	tag, err := conn.Exec(ctx, query, event.Title, event.DateTime, event.HasReminder, event.ReminderMinutes, event.Id)
	if err != nil {
		err = fmt.Errorf("could not update event %d: %w", event.Id, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id int64) (found bool, err error) {
	defer metrics.ObserveStoreOperation("delete", time.Now(), &err)

	conn, err := r.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		err = fmt.Errorf("could not delete event %d: %w", id, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		err = fmt.Errorf("could not acquire database connection: %w", err)
		log.Error(err)
		return nil, err
	}
	return conn, nil
}

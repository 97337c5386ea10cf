package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"devevent/internal/domain"
)

const eventColumns = `id, title, slug, description, overview, image, venue, location,
		event_date, event_time, mode, audience, agenda, organizer, tags, created_at, updated_at`

type eventRepository struct {
	pool Pool
}

// NewEventRepository returns a domain.EventRepository backed by Postgres.
func NewEventRepository(pool Pool) domain.EventRepository {
	return &eventRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var date time.Time
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&date, &e.Time, &e.Mode, &e.Audience, pq.Array(&e.Agenda), &e.Organizer, pq.Array(&e.Tags),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Date = date.Format(domain.DateLayout)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, slug, description, overview, image, venue, location,
			event_date, event_time, mode, audience, agenda, organizer, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapError(db, err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *eventRepository) getOne(ctx context.Context, query string, arg string) (*domain.Event, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, mapError(db, err)
	}
	return e, nil
}

func (r *eventRepository) Exists(ctx context.Context, id string) (bool, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		err = mapError(db, err)
		if err == domain.ErrNotFound {
			// Malformed ids cannot match any row.
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, err
	}

	const where = `WHERE ($1 = '' OR $1 = ANY(tags)) AND ($2 = '' OR mode = $2)`
	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events `+where, filter.Tag, filter.Mode).Scan(&total); err != nil {
		return nil, 0, mapError(db, err)
	}

	query := `SELECT ` + eventColumns + ` FROM events ` + where + `
		ORDER BY event_date, event_time, id
		LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, filter.Tag, filter.Mode, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, mapError(db, err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(db, err)
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE events SET
			title = $2, slug = $3, description = $4, overview = $5, image = $6, venue = $7,
			location = $8, event_date = $9, event_time = $10, mode = $11, audience = $12,
			agenda = $13, organizer = $14, tags = $15, updated_at = $16
		WHERE id = $1
	`
	result, err := db.ExecContext(ctx, query,
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue,
		e.Location, e.Date, e.Time, e.Mode, e.Audience,
		pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags), e.UpdatedAt,
	)
	if err != nil {
		return mapError(db, err)
	}
	return requireAffected(result)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return mapError(db, err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

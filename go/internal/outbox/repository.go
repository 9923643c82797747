package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event is one row of the transactional outbox.
type Event struct {
	ID        uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertTx appends an event inside an existing transaction, so the event
// commits atomically with the state change it describes.
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, eventType string, payload []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO draft_outbox (id, event_type, payload)
		VALUES ($1, $2, $3)`,
		uuid.New(), eventType, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox %s: %w", eventType, err)
	}
	return nil
}

// Insert appends an event in its own transaction, for emitters that have no
// accompanying state change.
func (r *Repository) Insert(ctx context.Context, eventType string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO draft_outbox (id, event_type, payload)
		VALUES ($1, $2, $3)`,
		uuid.New(), eventType, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox %s: %w", eventType, err)
	}
	return nil
}

// FetchUnsentTx claims up to limit unsent events oldest-first, locking the
// rows so concurrent workers never double-publish.
func (r *Repository) FetchUnsentTx(ctx context.Context, tx *sql.Tx, limit int) ([]Event, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, event_type, payload, created_at
		FROM draft_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkSentTx stamps the given events as published.
func (r *Repository) MarkSentTx(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE draft_outbox SET sent_at = NOW()
		WHERE id = ANY($1)`, pq.Array(strIDs)); err != nil {
		return fmt.Errorf("failed to mark events sent: %w", err)
	}
	return nil
}

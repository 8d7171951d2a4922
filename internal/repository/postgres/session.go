package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/filecms/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

// SessionRepository stores sessions in the sessions table.
type SessionRepository struct {
	db  *Connection
	now func() time.Time
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session) error {
	const query = `
        INSERT INTO sessions (id, signed_in_user, flash_kind, flash_text, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	kind, text := flashColumns(s.Flash)
	_, err := r.db.ExecContext(ctx, query, s.ID, s.SignedInUser, kind, text, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (model.Session, error) {
	const query = `
        SELECT id, signed_in_user, flash_kind, flash_text, created_at, expires_at
        FROM sessions WHERE id = $1 AND expires_at > $2
    `

	var (
		s    model.Session
		kind sql.NullString
		text sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id, r.now()).Scan(
		&s.ID, &s.SignedInUser, &kind, &text, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, model.ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	s.Flash = flashFromColumns(kind, text)
	return s, nil
}

func (r *SessionRepository) SetUser(ctx context.Context, id string, username string) error {
	const query = `
        UPDATE sessions SET signed_in_user = $2
        WHERE id = $1 AND expires_at > $3
    `

	res, err := r.db.ExecContext(ctx, query, id, username, r.now())
	if err != nil {
		return fmt.Errorf("failed to set session user: %w", err)
	}
	return requireRow(res)
}

func (r *SessionRepository) SetFlash(ctx context.Context, id string, flash model.Flash) error {
	const query = `
        UPDATE sessions SET flash_kind = $2, flash_text = $3
        WHERE id = $1 AND expires_at > $4
    `

	res, err := r.db.ExecContext(ctx, query, id, string(flash.Kind), flash.Text, r.now())
	if err != nil {
		return fmt.Errorf("failed to set session flash: %w", err)
	}
	return requireRow(res)
}

// PopFlash reads and clears the flash in one statement; the row lock makes
// concurrent pops see the message at most once.
func (r *SessionRepository) PopFlash(ctx context.Context, id string) (*model.Flash, error) {
	const query = `
        UPDATE sessions s SET flash_kind = NULL, flash_text = NULL
        FROM (
            SELECT id, flash_kind, flash_text FROM sessions
            WHERE id = $1 AND expires_at > $2
            FOR UPDATE
        ) old
        WHERE s.id = old.id
        RETURNING old.flash_kind, old.flash_text
    `

	var kind, text sql.NullString
	err := r.db.QueryRowContext(ctx, query, id, r.now()).Scan(&kind, &text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to pop session flash: %w", err)
	}
	return flashFromColumns(kind, text), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func flashColumns(f *model.Flash) (sql.NullString, sql.NullString) {
	if f == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: string(f.Kind), Valid: true}, sql.NullString{String: f.Text, Valid: true}
}

func flashFromColumns(kind, text sql.NullString) *model.Flash {
	if !kind.Valid {
		return nil
	}
	return &model.Flash{Kind: model.FlashKind(kind.String), Text: text.String}
}

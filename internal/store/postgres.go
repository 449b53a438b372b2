package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
)

// PostgresLinks is a PostgreSQL implementation of shortlink.Repository.
type PostgresLinks struct {
	pool *pgxpool.Pool
}

// NewPostgresLinks creates a new PostgreSQL-backed link store.
func NewPostgresLinks(pool *pgxpool.Pool) *PostgresLinks {
	return &PostgresLinks{pool: pool}
}

// Save inserts a link. The primary key on code makes create-if-absent
// atomic: a concurrent insert of the same code surfaces as ErrCodeTaken,
// never as an overwrite.
func (p *PostgresLinks) Save(ctx context.Context, link *shortlink.ShortLink) error {
	query := `
		INSERT INTO short_links (code, target_url, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := p.pool.Exec(ctx, query, link.Code, link.TargetURL, link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return shortlink.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresLinks) GetByCode(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	query := `
		SELECT code, target_url, created_at
		FROM short_links
		WHERE code = $1
	`

	var link shortlink.ShortLink

	err := p.pool.QueryRow(ctx, query, code).Scan(
		&link.Code,
		&link.TargetURL,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

// PostgresRegistry is a PostgreSQL-backed user registry.
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistry creates a new PostgreSQL-backed registry.
func NewPostgresRegistry(pool *pgxpool.Pool) *PostgresRegistry {
	return &PostgresRegistry{pool: pool}
}

// Add records a chat. Re-registering is a no-op, so /start stays idempotent.
func (p *PostgresRegistry) Add(ctx context.Context, chatID int64) error {
	query := `
		INSERT INTO bot_users (chat_id, first_seen)
		VALUES ($1, NOW())
		ON CONFLICT (chat_id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query, chatID)

	return err
}

func (p *PostgresRegistry) All(ctx context.Context) ([]int64, error) {
	query := `SELECT chat_id FROM bot_users`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

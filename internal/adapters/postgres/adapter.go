package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/logging"
	"github.com/the127/keyv/internal/utils"

	_ "github.com/lib/pq"
	"github.com/rubenv/sql-migrate"
)

//go:embed migrations/*
var migrations embed.FS

var ErrNotText = errors.New("postgres adapter stores text values only")

// Adapter keeps raw values in the keyv_entries table. The table has no expiry
// column, entries are expired by keyv when read.
type Adapter struct {
	db *sql.DB
}

func New(db *sql.DB) *Adapter {
	return &Adapter{
		db: db,
	}
}

// Open connects with a postgres:// url or a lib/pq connection string.
func Open(uri string) (*Adapter, error) {
	logging.Logger.Infof("Connecting to postgres")

	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	return New(db), nil
}

func Factory(uri string) (keyv.Adapter, error) {
	return Open(uri)
}

func (a *Adapter) Migrate() error {
	source := migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations",
	}

	logging.Logger.Infof("Applying migrations...")

	n, err := migrate.Exec(a.db, "postgres", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logging.Logger.Infof("Applied %d migrations", n)
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Adapter) Get(ctx context.Context, key string) (any, bool, error) {
	query, args := selectQuery(key)
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	var value string
	err := a.db.QueryRowContext(ctx, query, args...).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("scanning row: %w", err)
	}

	return value, true, nil
}

func (a *Adapter) GetMany(ctx context.Context, keys []string, _ keyv.BatchOptions) ([]any, error) {
	values := make([]any, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	query, args := selectManyQuery(keys)
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying db: %w", err)
	}
	defer utils.IgnoreError(rows.Close)

	found := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		err := rows.Scan(&key, &value)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		found[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	for i, key := range keys {
		if value, ok := found[key]; ok {
			values[i] = value
		}
	}
	return values, nil
}

func (a *Adapter) Set(ctx context.Context, key string, value any, _ time.Duration) error {
	text, err := asText(value)
	if err != nil {
		return err
	}

	query, args := upsertQuery([]string{key}, []string{text})
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	_, err = a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	return nil
}

// SetMany writes all rows with one upsert statement. A key given twice keeps
// its last value, as sequential writes would.
func (a *Adapter) SetMany(ctx context.Context, keys []string, values []any, _ time.Duration, _ keyv.BatchOptions) error {
	if len(keys) == 0 {
		return nil
	}

	texts := make([]string, len(values))
	for i, value := range values {
		text, err := asText(value)
		if err != nil {
			return err
		}
		texts[i] = text
	}

	keys, texts = lastWriteWins(keys, texts)

	query, args := upsertQuery(keys, texts)
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	_, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, key string) (bool, error) {
	query, args := deleteQuery(key)
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("executing query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	query, args := clearQuery()
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	_, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	return nil
}

func (a *Adapter) ClearNamespace(ctx context.Context, namespace string) error {
	query, args := clearNamespaceQuery(namespace)
	logging.Logger.Debugf("query: %s, args: %+v", query, args)

	_, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func asText(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case []byte:
		return string(typed), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrNotText, value)
	}
}

// lastWriteWins drops earlier duplicates, postgres refuses to upsert the same
// row twice in one statement.
func lastWriteWins(keys []string, values []string) ([]string, []string) {
	last := make(map[string]int, len(keys))
	for i, key := range keys {
		last[key] = i
	}
	if len(last) == len(keys) {
		return keys, values
	}

	uniqueKeys := make([]string, 0, len(last))
	uniqueValues := make([]string, 0, len(last))
	for i, key := range keys {
		if last[key] == i {
			uniqueKeys = append(uniqueKeys, key)
			uniqueValues = append(uniqueValues, values[i])
		}
	}
	return uniqueKeys, uniqueValues
}

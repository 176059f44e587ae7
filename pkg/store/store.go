/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: SQLite-backed repository of named Liora networks. Networks are
persisted in their canonical text encoding together with metadata, and are
fully re-validated on load so a tampered database row cannot produce an
invalid network.
*/

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/liora/pkg/bayes"
	"github.com/kleascm/liora/pkg/codec"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no stored network carries the requested name.
var ErrNotFound = errors.New("network not found")

// Record is the stored metadata of one network.
type Record struct {
	ID        string
	Name      string
	NodeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a repository of named networks backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the repository database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS networks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		data TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_networks_name ON networks(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a network under the given name, stored in the canonical text
// encoding.
func (s *Store) Save(ctx context.Context, name string, net *bayes.Network) error {
	data, err := codec.TextCodec{}.Encode(net)
	if err != nil {
		return fmt.Errorf("failed to encode network %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO networks (id, name, data, node_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			node_count = excluded.node_count,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), name, string(data), net.Len())
	if err != nil {
		return fmt.Errorf("failed to save network %q: %w", name, err)
	}
	return nil
}

// Load decodes the named network, re-running the full invariant validation.
func (s *Store) Load(ctx context.Context, name string) (*bayes.Network, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM networks WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load network %q: %w", name, err)
	}
	net, err := (codec.TextCodec{}).Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("stored network %q: %w", name, err)
	}
	return net, nil
}

// List returns the metadata of every stored network, ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, node_count, created_at, updated_at
		FROM networks ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.NodeCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan network record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Delete removes the named network.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM networks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete network %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/strata/internal/catalog"
)

// Store implements catalog.Store over sqlite.
type Store struct {
	db *sql.DB
}

var _ catalog.Store = (*Store)(nil)

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, address string) (catalog.Definition, error) {
	var d catalog.Definition
	err := s.db.QueryRowContext(ctx,
		`SELECT address, kind, title, body FROM panels WHERE address = ?`, address,
	).Scan(&d.Address, &d.Kind, &d.Title, &d.Body)
	if errors.Is(err, sql.ErrNoRows) {
		known, listErr := s.addresses(ctx)
		if listErr != nil {
			return catalog.Definition{}, listErr
		}
		return catalog.Definition{}, catalog.NewNotFoundError(address, known)
	}
	if err != nil {
		return catalog.Definition{}, fmt.Errorf("querying panel %s: %w", address, err)
	}

	params, err := s.params(ctx, address)
	if err != nil {
		return catalog.Definition{}, err
	}
	d.Params = params[address]
	return d, nil
}

func (s *Store) List(ctx context.Context) ([]catalog.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT address, kind, title, body FROM panels ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("listing panels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var defs []catalog.Definition
	for rows.Next() {
		var d catalog.Definition
		if err := rows.Scan(&d.Address, &d.Kind, &d.Title, &d.Body); err != nil {
			return nil, fmt.Errorf("scanning panel: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing panels: %w", err)
	}

	params, err := s.params(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range defs {
		defs[i].Params = params[defs[i].Address]
	}
	return defs, nil
}

// Put upserts defs in one transaction, replacing their params.
func (s *Store) Put(ctx context.Context, defs ...catalog.Definition) error {
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range defs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO panels (address, kind, title, body, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(address) DO UPDATE SET
				kind = excluded.kind,
				title = excluded.title,
				body = excluded.body,
				updated_at = CURRENT_TIMESTAMP`,
			d.Address, d.Kind, d.Title, d.Body,
		); err != nil {
			return fmt.Errorf("saving panel %s: %w", d.Address, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM panel_params WHERE address = ?`, d.Address); err != nil {
			return fmt.Errorf("clearing params for %s: %w", d.Address, err)
		}
		for name, value := range d.Params {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO panel_params (address, name, value) VALUES (?, ?, ?)`,
				d.Address, name, value,
			); err != nil {
				return fmt.Errorf("saving param %s for %s: %w", name, d.Address, err)
			}
		}
	}
	return tx.Commit()
}

// Delete removes the definition for address. Reports whether it existed.
func (s *Store) Delete(ctx context.Context, address string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM panels WHERE address = ?`, address)
	if err != nil {
		return false, fmt.Errorf("deleting panel %s: %w", address, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) addresses(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT address FROM panels`)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// params loads params for one address, or for all when address is empty.
func (s *Store) params(ctx context.Context, address string) (map[string]map[string]string, error) {
	query := `SELECT address, name, value FROM panel_params`
	var args []any
	if address != "" {
		query += ` WHERE address = ?`
		args = append(args, address)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying params: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var addr, name, value string
		if err := rows.Scan(&addr, &name, &value); err != nil {
			return nil, fmt.Errorf("scanning param: %w", err)
		}
		if out[addr] == nil {
			out[addr] = make(map[string]string)
		}
		out[addr][name] = value
	}
	return out, rows.Err()
}

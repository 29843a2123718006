package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khanglvm/daily-raffle/internal/history"
)

var errClosed = errors.New("database is closed")

// Load reads the whole history in one read transaction.
func (s *SQLiteStorage) Load(ctx context.Context) (*history.History, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, s.storageError("read", errClosed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.storageError("read", err)
	}
	defer tx.Rollback()

	h := &history.History{}

	draws, err := s.loadDraws(ctx, tx)
	if err != nil {
		return nil, err
	}
	h.Draws = draws

	var drawnAt, numbers string
	err = tx.QueryRowContext(ctx, "SELECT drawn_at, numbers FROM last_draw WHERE id = 1").Scan(&drawnAt, &numbers)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, s.storageError("read", err)
	default:
		d, err := decodeDraw(drawnAt, numbers)
		if err != nil {
			return nil, s.storageError("parse", err)
		}
		h.LastDraw = &d
	}

	return h, nil
}

func (s *SQLiteStorage) loadDraws(ctx context.Context, tx *sql.Tx) ([]history.Draw, error) {
	rows, err := tx.QueryContext(ctx, "SELECT drawn_at, numbers FROM draws ORDER BY id")
	if err != nil {
		return nil, s.storageError("read", err)
	}
	defer rows.Close()

	var draws []history.Draw
	for rows.Next() {
		var drawnAt, numbers string
		if err := rows.Scan(&drawnAt, &numbers); err != nil {
			return nil, s.storageError("read", err)
		}
		d, err := decodeDraw(drawnAt, numbers)
		if err != nil {
			return nil, s.storageError("parse", err)
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageError("read", err)
	}
	return draws, nil
}

// Save replaces the stored history with h in one write transaction.
func (s *SQLiteStorage) Save(ctx context.Context, h *history.History) error {
	if err := s.Init(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return s.storageError("write", errClosed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.storageError("write", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM draws"); err != nil {
		return s.storageError("write", err)
	}
	for _, d := range h.Draws {
		drawnAt, numbers, err := encodeDraw(d)
		if err != nil {
			return s.storageError("write", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO draws (drawn_at, numbers) VALUES (?, ?)",
			drawnAt, numbers,
		); err != nil {
			return s.storageError("write", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM last_draw"); err != nil {
		return s.storageError("write", err)
	}
	if h.LastDraw != nil {
		drawnAt, numbers, err := encodeDraw(*h.LastDraw)
		if err != nil {
			return s.storageError("write", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO last_draw (id, drawn_at, numbers) VALUES (1, ?, ?)",
			drawnAt, numbers,
		); err != nil {
			return s.storageError("write", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.storageError("write", err)
	}
	return nil
}

func (s *SQLiteStorage) storageError(op string, err error) error {
	return &history.StorageError{Op: op, Path: s.dbPath, Err: err}
}

func encodeDraw(d history.Draw) (string, string, error) {
	numbers, err := json.Marshal(d.Numbers)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal numbers: %w", err)
	}
	return d.Time.Format(time.RFC3339Nano), string(numbers), nil
}

func decodeDraw(drawnAt, numbers string) (history.Draw, error) {
	ts, err := history.ParseTimestamp(drawnAt)
	if err != nil {
		return history.Draw{}, err
	}
	var d history.Draw
	d.Time = ts
	if err := json.Unmarshal([]byte(numbers), &d.Numbers); err != nil {
		return history.Draw{}, fmt.Errorf("invalid numbers %q: %w", numbers, err)
	}
	if err := d.Validate(); err != nil {
		return history.Draw{}, err
	}
	return d, nil
}

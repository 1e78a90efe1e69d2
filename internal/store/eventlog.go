package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"treedo-cli/internal/model"
)

// AppendEvent records one audit entry. Best-effort: callers typically
// ignore the error, and a failed append never blocks or corrupts the
// in-memory state.
func (s Store) AppendEvent(typ, nodeID string, payload any) error {
	return s.appendEventSQLite(context.Background(), typ, nodeID, payload)
}

func (s Store) appendEventSQLite(ctx context.Context, typ, nodeID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLite(ctx, db); err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("null")
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events(ts_unixms, type, node_id, payload_json) VALUES(?, ?, ?, ?)`,
		time.Now().UTC().UnixMilli(), strings.TrimSpace(typ), strings.TrimSpace(nodeID), string(raw))
	return err
}

// ReadEventsTail returns the last N events in chronological order.
// limit <= 0 returns everything.
func (s Store) ReadEventsTail(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLite(ctx, db); err != nil {
		return nil, err
	}

	q := `SELECT id, ts_unixms, type, node_id, payload_json FROM events ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var tsMs int64
		var payload string
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.NodeID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		if strings.TrimSpace(payload) != "" && payload != "null" {
			var v any
			if err := json.Unmarshal([]byte(payload), &v); err == nil {
				ev.Payload = v
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip to chronological.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}

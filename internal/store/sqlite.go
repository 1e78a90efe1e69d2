package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"treedo-cli/internal/model"

	_ "modernc.org/sqlite"
)

// nodeRow is the flat wire form of one node: structural containment becomes
// a parent reference plus a sibling position index.
type nodeRow struct {
	ID        string     `json:"id"`
	ParentID  string     `json:"parentId,omitempty"`
	Position  int        `json:"position"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Expanded  bool       `json:"expanded"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when the CLI runs next to the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL,
			expanded INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			end_date_unixms INTEGER,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			node_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_node ON events(node_id, ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// SaveSQLite persists the forest with a replace-all transaction (simple and
// safe at this scale; incremental writes can come later).
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLite(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = 1
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", version)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}

	for _, row := range flattenForest(st.Nodes) {
		raw, _ := json.Marshal(row)
		var endMs any
		if row.EndDate != nil {
			endMs = row.EndDate.UTC().UnixMilli()
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(
			id, parent_id, position,
			title, completed, expanded,
			created_at_unixms, updated_at_unixms, end_date_unixms,
			json
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, row.ParentID, row.Position,
			row.Title, boolToInt(row.Completed), boolToInt(row.Expanded),
			row.CreatedAt.UTC().UnixMilli(), row.UpdatedAt.UTC().UnixMilli(), endMs,
			string(raw),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSQLite reads all node rows and rebuilds the forest.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLite(ctx, db); err != nil {
		return nil, err
	}

	out := &DB{Version: 1, Nodes: []model.Node{}}

	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "version").Scan(&v)
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		out.Version = n
	}

	rows, err := db.QueryContext(ctx, `SELECT json FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flat []nodeRow
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var r nodeRow
		if err := json.Unmarshal([]byte(js), &r); err != nil {
			return nil, err
		}
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out.Nodes = rebuildForest(flat)
	return out, nil
}

// flattenForest converts the nested forest into flat rows; Position is the
// sibling index at each level.
func flattenForest(nodes []model.Node) []nodeRow {
	var out []nodeRow
	var walk func(nodes []model.Node, parentID string)
	walk = func(nodes []model.Node, parentID string) {
		for i := range nodes {
			n := nodes[i]
			out = append(out, nodeRow{
				ID:        n.ID,
				ParentID:  parentID,
				Position:  i,
				Title:     n.Title,
				Completed: n.Completed,
				Expanded:  n.Expanded,
				CreatedAt: n.CreatedAt,
				UpdatedAt: n.UpdatedAt,
				EndDate:   n.EndDate,
			})
			walk(n.Children, n.ID)
		}
	}
	walk(nodes, "")
	return out
}

// rebuildForest inverts flattenForest. Rows whose parent is missing are
// lifted to the root level rather than dropped (same orphan rule the
// outline view uses); self- or cycle-referencing rows degrade the same way.
func rebuildForest(flat []nodeRow) []model.Node {
	present := map[string]bool{}
	for _, r := range flat {
		present[r.ID] = true
	}

	children := map[string][]nodeRow{}
	var roots []nodeRow
	for _, r := range flat {
		pid := strings.TrimSpace(r.ParentID)
		if pid == "" || pid == r.ID || !present[pid] {
			roots = append(roots, r)
			continue
		}
		children[pid] = append(children[pid], r)
	}

	sortRows := func(rs []nodeRow) {
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].Position != rs[j].Position {
				return rs[i].Position < rs[j].Position
			}
			if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
				return rs[i].CreatedAt.Before(rs[j].CreatedAt)
			}
			return rs[i].ID < rs[j].ID
		})
	}
	sortRows(roots)
	for pid := range children {
		sortRows(children[pid])
	}

	seen := map[string]bool{}
	var build func(r nodeRow) model.Node
	build = func(r nodeRow) model.Node {
		n := model.Node{
			ID:        r.ID,
			Title:     r.Title,
			Completed: r.Completed,
			Expanded:  r.Expanded,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			EndDate:   r.EndDate,
		}
		for _, ch := range children[r.ID] {
			if seen[ch.ID] {
				continue
			}
			seen[ch.ID] = true
			n.Children = append(n.Children, build(ch))
		}
		return n
	}

	out := make([]model.Node, 0, len(roots))
	for _, r := range roots {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, build(r))
	}

	// Rows trapped in a parent cycle (A under B under A) reach neither the
	// roots nor any built subtree. Lift the first of each cycle to the root
	// tail; build then attaches the rest of the cycle beneath it.
	var cycled []nodeRow
	for _, r := range flat {
		if !seen[r.ID] {
			cycled = append(cycled, r)
		}
	}
	sortRows(cycled)
	for _, r := range cycled {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, build(r))
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

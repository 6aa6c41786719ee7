/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	applog "github.com/avijitroydgp7/HMI-2.00/internal/log"
	"github.com/avijitroydgp7/HMI-2.00/internal/version"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".hmi"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at .hmi/index.sqlite,
// opens the database, enables WAL mode, and ensures the meta/version tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if stringsTrim(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .hmi dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .hmi dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Ensure WAL mode is active.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Enforce foreign keys just in case future schema uses them.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	// Ensure core index schema exists (screens, objects, tags, FTS, snapshots)
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	// Run migrations to bring DB schema up to date
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	// Create tables if not exist
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	// Seed or update single-row version info
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	// Check if a version row exists
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Insert new row with current schemaVersion for a fresh DB
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just log and continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// Add helpful indexes for tag where-used lookups
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_objects_tag ON objects(tag_ref);`,
				`CREATE INDEX IF NOT EXISTS idx_objects_screen ON objects(screen_id);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			if _, err := db.ExecContext(ctx, `INSERT INTO fts_documents(fts_documents) VALUES('optimize')`); err != nil {
				// best-effort optimize; ignore errors
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Screens catalog mirrored from the manifest for fast lookups.
		`CREATE TABLE IF NOT EXISTS screens (
			screen_id TEXT    PRIMARY KEY,
			type      TEXT    NOT NULL,
			number    INTEGER NOT NULL,
			title     TEXT,
			width     REAL    NOT NULL,
			height    REAL    NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_screens_type_number ON screens(type, number);`,

		// Objects per screen, geometry denormalized for spatial queries.
		`CREATE TABLE IF NOT EXISTS objects (
			object_id TEXT    PRIMARY KEY,
			screen_id TEXT    NOT NULL,
			kind      TEXT    NOT NULL,
			z         INTEGER NOT NULL,
			bb_left   REAL    NOT NULL,
			bb_top    REAL    NOT NULL,
			bb_right  REAL    NOT NULL,
			bb_bottom REAL    NOT NULL,
			tag_ref   TEXT,
			label     TEXT,
			FOREIGN KEY(screen_id) REFERENCES screens(screen_id) ON DELETE CASCADE
		);`,

		// Tag database mirrored from the manifest.
		`CREATE TABLE IF NOT EXISTS tags (
			tag_group  TEXT NOT NULL,
			name       TEXT NOT NULL,
			address    TEXT,
			data_type  TEXT,
			comment    TEXT,
			PRIMARY KEY(tag_group, name)
		);`,

		// Contentless FTS5 over searchable text fed from documents via triggers.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id INTEGER PRIMARY KEY,
			type   TEXT    NOT NULL,
			path   TEXT    NOT NULL,
			text   TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Snapshots (per-screen autosave history)
		`CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY,
			screen_id TEXT    NOT NULL,
			ts        TEXT    NOT NULL,
			blob      BLOB    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_screen_ts ON snapshots(screen_id, ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers for contentless FTS synchronization with documents.text
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF text ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, projectRoot string, proj domain.Project) (bool, error) {
	path := IndexPath(projectRoot)
	// Try to open DB; if fails, attempt backup+delete+rebuild
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, projectRoot, proj); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	// quick_check for corruption
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	// Probe core tables
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM screens LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM objects LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	// Backup and remove existing DB file
	backupIndexFile(path)
	_ = os.Remove(path)
	// Rebuild
	if err := RebuildIndex(ctx, projectRoot, proj); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .hmi/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// stringsTrim is a tiny helper to avoid importing strings here just for TrimSpace.
func stringsTrim(s string) string {
	// manual trim of spaces and tabs
	i := 0
	j := len(s)
	for i < j {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		break
	}
	for i < j {
		c := s[j-1]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j--
			continue
		}
		break
	}
	return s[i:j]
}

// BuildIndexIfEmpty performs a minimal background index build if the index has no user content.
// It ensures the DB exists and, if the screens table is empty, populates it from the manifest.
func BuildIndexIfEmpty(ctx context.Context, projectRoot string, proj domain.Project) error {
	// Ensure the DB exists and is initialized
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Check if screens has any rows
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM screens;").Scan(&cnt); err != nil {
		return fmt.Errorf("check screens count: %w", err)
	}
	if cnt > 0 {
		return nil // already built
	}
	return rebuildFromProject(ctx, db, proj)
}

// UpdateIndex updates the embedded index with changes from the project manifest.
// Minimal safe implementation: replace the mirrored content from the provided manifest.
func UpdateIndex(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildFromProject(ctx, db, proj)
}

// RebuildIndex drops and recreates core index tables and rebuilds content from the manifest.
// It preserves meta/version tables. This is a safe operation; the index is derived from project.json.
func RebuildIndex(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Drop core tables inside a transaction and recreate schema
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS objects;",
		"DROP TABLE IF EXISTS screens;",
		"DROP TABLE IF EXISTS tags;",
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS fts_documents;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	// Recreate schema and populate
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildFromProject(ctx, db, proj)
}

// rebuildFromProject replaces the mirrored screens/objects/tags content and the
// searchable documents from the given project manifest.
func rebuildFromProject(ctx context.Context, db *sql.DB, proj domain.Project) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	clears := []string{
		"DELETE FROM objects;",
		"DELETE FROM screens;",
		"DELETE FROM tags;",
		"DELETE FROM documents;",
	}
	for _, q := range clears {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear index: %w", err)
		}
	}

	insScreen, err := tx.PrepareContext(ctx, "INSERT INTO screens(screen_id, type, number, title, width, height) VALUES(?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare screen insert: %w", err)
	}
	defer insScreen.Close()
	insObject, err := tx.PrepareContext(ctx, "INSERT INTO objects(object_id, screen_id, kind, z, bb_left, bb_top, bb_right, bb_bottom, tag_ref, label) VALUES(?,?,?,?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare object insert: %w", err)
	}
	defer insObject.Close()
	insTag, err := tx.PrepareContext(ctx, "INSERT INTO tags(tag_group, name, address, data_type, comment) VALUES(?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare tag insert: %w", err)
	}
	defer insTag.Close()
	insDoc, err := tx.PrepareContext(ctx, "INSERT INTO documents(type, path, text) VALUES(?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare document insert: %w", err)
	}
	defer insDoc.Close()

	if s := stringsTrim(proj.Name); s != "" {
		if _, err := insDoc.ExecContext(ctx, "project_name", "project:name", s); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
	}
	for si := range proj.Screens {
		sc := &proj.Screens[si]
		if _, err := insScreen.ExecContext(ctx, sc.ID, sc.Type, sc.Number, sc.Title, sc.Width, sc.Height); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert screen: %w", err)
		}
		if s := stringsTrim(sc.Title); s != "" {
			if _, err := insDoc.ExecContext(ctx, "screen_title", "screen:"+sc.ID, s); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert document: %w", err)
			}
		}
		for oi := range sc.Objects {
			ob := &sc.Objects[oi]
			var tagRef, label sql.NullString
			if ob.TagRef != "" {
				tagRef = sql.NullString{String: ob.TagRef, Valid: true}
			}
			if ob.Label != "" {
				label = sql.NullString{String: ob.Label, Valid: true}
			}
			if _, err := insObject.ExecContext(ctx, ob.ID, sc.ID, ob.Kind, ob.Z,
				ob.Bounds.Left, ob.Bounds.Top, ob.Bounds.Right, ob.Bounds.Bottom, tagRef, label); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert object: %w", err)
			}
			if s := stringsTrim(ob.Label); s != "" {
				if _, err := insDoc.ExecContext(ctx, "object_label", fmt.Sprintf("screen:%s/object:%s", sc.ID, ob.ID), s); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("insert document: %w", err)
				}
			}
		}
	}
	for gi := range proj.TagGroups {
		g := &proj.TagGroups[gi]
		for ti := range g.Tags {
			t := &g.Tags[ti]
			if _, err := insTag.ExecContext(ctx, g.Name, t.Name, t.Address, t.DataType, t.Comment); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert tag: %w", err)
			}
			if s := stringsTrim(t.Comment); s != "" {
				if _, err := insDoc.ExecContext(ctx, "tag_comment", fmt.Sprintf("tag:%s/%s", g.Name, t.Name), s); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("insert document: %w", err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// TagUsage is one object referencing a tag, as reported by TagWhereUsed.
type TagUsage struct {
	ScreenID string
	ObjectID string
	Kind     string
	Label    string
}

// TagWhereUsed lists all objects that reference the given "group/name" tag,
// ordered by screen then object id. The index must be up to date; callers
// typically run UpdateIndex after edits.
func TagWhereUsed(ctx context.Context, projectRoot, tagRef string) ([]TagUsage, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	// language=SQL
	const q = `SELECT screen_id, object_id, kind, COALESCE(label, '')
		FROM objects WHERE tag_ref = ?
		ORDER BY screen_id, object_id;`
	rows, err := db.QueryContext(ctx, q, tagRef)
	if err != nil {
		return nil, fmt.Errorf("query tag usage: %w", err)
	}
	defer rows.Close()
	var out []TagUsage
	for rows.Next() {
		var u TagUsage
		if err := rows.Scan(&u.ScreenID, &u.ObjectID, &u.Kind, &u.Label); err != nil {
			return nil, fmt.Errorf("scan tag usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag usage: %w", err)
	}
	return out, nil
}

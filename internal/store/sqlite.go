package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS videos (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	data BLOB NOT NULL,
	size INTEGER NOT NULL,
	created_at_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	original_name TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at_ms INTEGER NOT NULL,
	last_modified_ms INTEGER NOT NULL,
	trim_start_ms INTEGER NOT NULL,
	trim_end_ms INTEGER NOT NULL,
	current_time_ms INTEGER NOT NULL,
	is_loaded BOOLEAN NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_projects_modified ON projects(last_modified_ms);
`

// SQLiteStore modernc sqlite üzerinde çalışan kalıcı depodur.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite veritabanını açar, WAL ve busy_timeout ayarlarını uygular ve şemayı kurar.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, wrap("open", fmt.Errorf("veritabanı dizini oluşturulamadı: %w", err))
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrap("open", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, wrap("open", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, wrap("migrate", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	var current int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) StoreVideo(ctx context.Context, id string, data []byte, filename string) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO videos (id, filename, data, size, created_at_ms)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		filename = excluded.filename,
		data = excluded.data,
		size = excluded.size`,
		id, filename, data, len(data), time.Now().UnixMilli(),
	)
	return wrap("store-video", err)
}

func (s *SQLiteStore) GetVideo(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM videos WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get-video", err)
	}
	return data, nil
}

func (s *SQLiteStore) DeleteVideo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	return wrap("delete-video", err)
}

func (s *SQLiteStore) StoreProject(ctx context.Context, rec ProjectRecord) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO projects (id, name, original_name, duration_ms, created_at_ms, last_modified_ms,
		trim_start_ms, trim_end_ms, current_time_ms, is_loaded)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		original_name = excluded.original_name,
		duration_ms = excluded.duration_ms,
		last_modified_ms = excluded.last_modified_ms,
		trim_start_ms = excluded.trim_start_ms,
		trim_end_ms = excluded.trim_end_ms,
		current_time_ms = excluded.current_time_ms,
		is_loaded = excluded.is_loaded`,
		rec.ID, rec.Name, rec.OriginalName, rec.DurationMs,
		rec.CreatedAt.UnixMilli(), rec.LastModified.UnixMilli(),
		rec.TrimStartMs, rec.TrimEndMs, rec.CurrentTimeMs, rec.IsLoaded,
	)
	return wrap("store-project", err)
}

const projectColumns = `id, name, original_name, duration_ms, created_at_ms, last_modified_ms,
	trim_start_ms, trim_end_ms, current_time_ms, is_loaded`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (ProjectRecord, error) {
	var rec ProjectRecord
	var createdMs, modifiedMs int64
	err := row.Scan(&rec.ID, &rec.Name, &rec.OriginalName, &rec.DurationMs, &createdMs, &modifiedMs,
		&rec.TrimStartMs, &rec.TrimEndMs, &rec.CurrentTimeMs, &rec.IsLoaded)
	if err != nil {
		return rec, err
	}
	rec.CreatedAt = time.UnixMilli(createdMs)
	rec.LastModified = time.UnixMilli(modifiedMs)
	return rec, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*ProjectRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	rec, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get-project", err)
	}
	return &rec, nil
}

// GetAllProjects projeleri son değişiklik zamanına göre yeniden eskiye döner.
func (s *SQLiteStore) GetAllProjects(ctx context.Context) ([]ProjectRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY last_modified_ms DESC, id`)
	if err != nil {
		return nil, wrap("list-projects", err)
	}
	defer rows.Close()

	var out []ProjectRecord
	for rows.Next() {
		rec, err := scanProject(rows)
		if err != nil {
			return nil, wrap("list-projects", err)
		}
		out = append(out, rec)
	}
	return out, wrap("list-projects", rows.Err())
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return wrap("delete-project", err)
}

func (s *SQLiteStore) Info(ctx context.Context) (Info, error) {
	var info Info
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size), 0), COUNT(*) FROM videos`).Scan(&info.UsedBytes, &info.VideoCount)
	if err != nil {
		return info, wrap("info", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&info.ProjectCount); err != nil {
		return info, wrap("info", err)
	}
	return info, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

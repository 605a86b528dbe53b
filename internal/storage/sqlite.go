package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore 基于 SQLite (WAL 模式) 的本地缓存实现
// SQLiteStore implements Store using SQLite with WAL mode.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore 创建并初始化 SQLite 数据库
// NewSQLiteStore creates and initializes a SQLite database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		theme      TEXT NOT NULL DEFAULT 'dark',
		language   TEXT NOT NULL DEFAULT 'English',
		last_email TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transcript (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		account    TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		sender     TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(account, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_transcript_account ON transcript(account, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- Preferences ---

// Preferences 单行本地偏好
// Preferences is the single-row local preference set.
type Preferences struct {
	Theme     string
	Language  string
	LastEmail string
}

func defaultPreferences() Preferences {
	return Preferences{Theme: "dark", Language: "English"}
}

// LoadPreferences 读取偏好；尚未写入过时返回默认值
// LoadPreferences reads preferences, defaults when never saved.
func (s *SQLiteStore) LoadPreferences() (Preferences, error) {
	row := s.db.QueryRow(`SELECT theme, language, last_email FROM preferences WHERE id = 1`)

	var p Preferences
	err := row.Scan(&p.Theme, &p.Language, &p.LastEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return defaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

// SavePreferences 写入偏好（upsert 单行）
// SavePreferences upserts the single preference row.
func (s *SQLiteStore) SavePreferences(p Preferences) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (id, theme, language, last_email, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme=excluded.theme,
			language=excluded.language,
			last_email=excluded.last_email,
			updated_at=excluded.updated_at`,
		p.Theme, p.Language, p.LastEmail, nowUTC())
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// --- Transcript ---

// TranscriptRow 本地缓存的一条对话消息
// TranscriptRow is one locally cached conversation message.
type TranscriptRow struct {
	Account string
	Seq     int
	Sender  string
	Body    string
}

// AppendMessage 追加一条转录消息，seq 按账户递增
// AppendMessage appends one transcript message with a per-account sequence.
func (s *SQLiteStore) AppendMessage(account, sender, body string) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return fmt.Errorf("account is empty")
	}
	_, err := s.db.Exec(`
		INSERT INTO transcript (account, seq, sender, body, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), -1) + 1 FROM transcript WHERE account = ?), ?, ?, ?)`,
		account, account, sender, body, nowUTC())
	if err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

// LoadTranscript 按序读取某账户的全部转录
// LoadTranscript reads an account's transcript in sequence order.
func (s *SQLiteStore) LoadTranscript(account string) ([]TranscriptRow, error) {
	rows, err := s.db.Query(`
		SELECT account, seq, sender, body FROM transcript WHERE account = ? ORDER BY seq`, account)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		var r TranscriptRow
		if err := rows.Scan(&r.Account, &r.Seq, &r.Sender, &r.Body); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearTranscript 清空某账户的转录
// ClearTranscript drops an account's transcript.
func (s *SQLiteStore) ClearTranscript(account string) error {
	_, err := s.db.Exec(`DELETE FROM transcript WHERE account = ?`, account)
	if err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with voicedesk-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS college_info (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    tagline TEXT NOT NULL DEFAULT '',
    logo TEXT NOT NULL DEFAULT '',
    about TEXT NOT NULL DEFAULT '',
    courses TEXT NOT NULL DEFAULT '[]',
    facilities TEXT NOT NULL DEFAULT '[]',
    hostel_description TEXT NOT NULL DEFAULT '',
    hostel_fees TEXT NOT NULL DEFAULT '',
    admission_process TEXT NOT NULL DEFAULT '',
    founder TEXT NOT NULL DEFAULT '',
    chairman TEXT NOT NULL DEFAULT '',
    director TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    contact_email TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    contact_address TEXT NOT NULL DEFAULT '',
    last_updated DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS agent_config (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    enabled INTEGER NOT NULL DEFAULT 1,
    first_message TEXT NOT NULL DEFAULT '',
    end_call_message TEXT NOT NULL DEFAULT '',
    system_prompt TEXT NOT NULL DEFAULT '',
    tone TEXT NOT NULL DEFAULT 'formal' CHECK (tone IN ('formal','friendly')),
    language TEXT NOT NULL DEFAULT 'English' CHECK (language IN ('English','Hindi','Both')),
    fallback_message TEXT NOT NULL DEFAULT '',
    escalation_rules TEXT NOT NULL DEFAULT '[]',
    vapi_assistant_id TEXT NOT NULL DEFAULT '',
    live_data_url TEXT NOT NULL DEFAULT '',
    rag_enabled INTEGER NOT NULL DEFAULT 0,
    last_modified DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS knowledge_documents (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT 'manual' CHECK (source IN ('manual','upload','url')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS knowledge_chunks (
    document_id TEXT NOT NULL REFERENCES knowledge_documents(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    text TEXT NOT NULL,
    embedding TEXT NOT NULL,
    PRIMARY KEY (document_id, idx)
);

CREATE TABLE IF NOT EXISTS admission_leads (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    age TEXT NOT NULL DEFAULT '',
    twelfth_percentage TEXT NOT NULL DEFAULT '',
    course TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    call_id TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT 'voice' CHECK (source IN ('voice','voice_fallback','vapi_sync','web')),
    transcript TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_call_id ON admission_leads(call_id) WHERE call_id != '';
CREATE INDEX IF NOT EXISTS idx_leads_created ON admission_leads(created_at);

CREATE TABLE IF NOT EXISTS call_logs (
    id TEXT PRIMARY KEY,
    call_id TEXT NOT NULL UNIQUE,
    caller_number TEXT NOT NULL DEFAULT '',
    call_type TEXT NOT NULL DEFAULT 'Web' CHECK (call_type IN ('Inbound','Web')),
    ended_reason TEXT NOT NULL DEFAULT 'Customer Ended Call',
    start_time DATETIME,
    end_time DATETIME,
    duration INTEGER NOT NULL DEFAULT 0,
    transcript TEXT NOT NULL DEFAULT '[]',
    summary TEXT NOT NULL DEFAULT '',
    enquiry_type TEXT NOT NULL DEFAULT 'general',
    outcome TEXT NOT NULL DEFAULT 'answered' CHECK (outcome IN ('answered','escalated','abandoned')),
    automation_email INTEGER NOT NULL DEFAULT 0,
    automation_sms INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_call_logs_start ON call_logs(start_time);

CREATE TABLE IF NOT EXISTS message_templates (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    channel TEXT NOT NULL CHECK (channel IN ('email','sms','whatsapp')),
    subject TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    variables TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

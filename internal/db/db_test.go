package db

import "testing"

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	// Schema must be queryable after migration.
	tables := []string{
		"college_info", "agent_config", "knowledge_documents", "knowledge_chunks",
		"admission_leads", "call_logs", "message_templates",
	}
	for _, table := range tables {
		var n int
		if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Errorf("querying %s: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestLeadCallIDUnique(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	insert := `INSERT INTO admission_leads (id, call_id) VALUES (?, ?)`
	if _, err := d.Exec(insert, "a", "call-1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := d.Exec(insert, "b", "call-1"); err == nil {
		t.Error("expected unique constraint violation for duplicate call_id")
	}
	// Empty call IDs are exempt from the partial index.
	if _, err := d.Exec(insert, "c", ""); err != nil {
		t.Fatalf("empty call_id insert: %v", err)
	}
	if _, err := d.Exec(insert, "d", ""); err != nil {
		t.Fatalf("second empty call_id insert: %v", err)
	}
}

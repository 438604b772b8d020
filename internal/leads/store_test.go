package leads

import (
	"context"
	"testing"

	"github.com/campushq/voicedesk/internal/db"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestInsertAndFindByCallID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	lead := &Lead{FullName: "Riya Sen", Course: "B.Tech CSE", CallID: "call-1", Source: "voice"}
	if err := store.Insert(ctx, lead); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if lead.ID == "" {
		t.Error("Insert should assign an ID")
	}

	found, err := store.FindByCallID(ctx, "call-1")
	if err != nil {
		t.Fatalf("FindByCallID: %v", err)
	}
	if found == nil || found.FullName != "Riya Sen" {
		t.Errorf("found = %+v", found)
	}

	missing, err := store.FindByCallID(ctx, "call-none")
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown call, got %+v, %v", missing, err)
	}
}

func TestInsertDuplicateCallID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, &Lead{FullName: "A", CallID: "call-dup"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := store.Insert(ctx, &Lead{FullName: "B", CallID: "call-dup"})
	if err != ErrDuplicateCall {
		t.Errorf("expected ErrDuplicateCall, got %v", err)
	}

	// Leads without a call ID never collide.
	for i := 0; i < 2; i++ {
		if err := store.Insert(ctx, &Lead{FullName: "Walk-in", Source: "web"}); err != nil {
			t.Errorf("insert %d without call ID: %v", i, err)
		}
	}
}

func TestListFilters(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	seed := []*Lead{
		{FullName: "Riya Sen", Course: "B.Tech CSE", City: "Cuttack", Phone: "+911111111111"},
		{FullName: "Arjun Patel", Course: "MBA", City: "Pune", Phone: "+912222222222"},
		{FullName: "Sneha Das", Course: "B.Tech CSE", City: "Bhubaneswar", Phone: "+913333333333"},
	}
	for _, l := range seed {
		if err := store.Insert(ctx, l); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	all, total, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("expected 3 leads, got %d (total %d)", len(all), total)
	}

	byCourse, total, err := store.List(ctx, ListFilter{Search: "b.tech"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 2 || len(byCourse) != 2 {
		t.Errorf("course search: got %d (total %d)", len(byCourse), total)
	}

	byName, _, err := store.List(ctx, ListFilter{Search: "arjun"})
	if err != nil {
		t.Fatalf("List name search: %v", err)
	}
	if len(byName) != 1 || byName[0].FullName != "Arjun Patel" {
		t.Errorf("name search = %+v", byName)
	}

	limited, total, err := store.List(ctx, ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 2 || total != 3 {
		t.Errorf("limit: got %d leads, total %d", len(limited), total)
	}

	none, total, err := store.List(ctx, ListFilter{From: "2099-01-01"})
	if err != nil {
		t.Fatalf("List from: %v", err)
	}
	if len(none) != 0 || total != 0 {
		t.Errorf("future filter should match nothing, got %d (total %d)", len(none), total)
	}
}

package db

import (
	"context"
	"testing"
)

// Integration test (requires running MongoDB)
func TestSystemFlags_Integration(t *testing.T) {
	database := integrationDB(t)
	flags := database.Collection("system_flags_test")
	defer flags.Drop(context.Background())
	coll := &MongoSystemCollection{Collection: flags}

	value, err := coll.GetFlag(context.Background(), SetupCompleteKey)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value {
		t.Error("expected unset flag to read false")
	}

	if err := coll.SetFlag(context.Background(), SetupCompleteKey, true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err = coll.GetFlag(context.Background(), SetupCompleteKey)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !value {
		t.Error("expected flag to read true after set")
	}

	// Upsert overwrites in place rather than accumulating documents.
	if err := coll.SetFlag(context.Background(), SetupCompleteKey, false); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	all, err := coll.AllFlags(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 flag document, got %d", len(all))
	}
	if len(all) == 1 && all[0].Value {
		t.Error("expected flag to read false after second set")
	}
}

package storage

import (
	"context"
	"testing"
	"time"
)

func TestActivitySummary(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(openTestDB(t))

	now := time.Now()
	entries := []Entry{
		{UserID: 1, Username: "alice", FirstName: "Alice", Activity: ActivityBotStarted, Timestamp: now},
		{UserID: 1, Username: "alice", FirstName: "Alice", Activity: ActivityTestStarted, Subject: "aviation", Timestamp: now},
		{UserID: 1, Username: "alice", FirstName: "Alice", Activity: ActivityTestStarted, Subject: "meteorology", Timestamp: now},
		{UserID: 1, Username: "alice", FirstName: "Alice", Activity: ActivityTestCompleted, Subject: "aviation", Timestamp: now},
		{UserID: 2, FirstName: "Bob", Activity: ActivityBotStarted, Timestamp: now},
		{UserID: 2, FirstName: "Bob", Activity: ActivityTestStarted, Subject: "navigation", Timestamp: now},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("recording %s for user %d: %v", e.Activity, e.UserID, err)
		}
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.UniqueUsers != 2 {
		t.Errorf("UniqueUsers = %d, want 2", summary.UniqueUsers)
	}
	if summary.StartedTests != 3 {
		t.Errorf("StartedTests = %d, want 3", summary.StartedTests)
	}
	if summary.CompletedTests != 1 {
		t.Errorf("CompletedTests = %d, want 1", summary.CompletedTests)
	}

	if len(summary.TopUsers) != 2 {
		t.Fatalf("TopUsers has %d entries, want 2", len(summary.TopUsers))
	}
	top := summary.TopUsers[0]
	if top.UserID != 1 || top.Tests != 2 {
		t.Errorf("top user = %+v, want user 1 with 2 tests", top)
	}
	if top.FirstName != "Alice" || top.Username != "alice" {
		t.Errorf("top user names = %q/%q, want Alice/alice", top.FirstName, top.Username)
	}
}

func TestSummaryEmptyLog(t *testing.T) {
	store := NewActivityStore(openTestDB(t))

	summary, err := store.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary on empty log: %v", err)
	}
	if summary.UniqueUsers != 0 || summary.StartedTests != 0 || summary.CompletedTests != 0 {
		t.Errorf("empty summary = %+v, want zeros", summary)
	}
	if len(summary.TopUsers) != 0 {
		t.Errorf("TopUsers = %v, want empty", summary.TopUsers)
	}
}

package feedback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/attendanceterminal/internal/keys"
	"github.com/dgraph-io/badger/v4"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	key, err := keys.NewKey()
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(db, key)
}

func TestStore(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	inserted := []Entry{
		{ID: "b", Time: base.Add(time.Hour), Text: "second"},
		{ID: "a", Time: base, Text: "first"},
		{ID: "c", Time: base.Add(48 * time.Hour), Text: "third"},
	}
	for _, entry := range inserted {
		if err := store.Append(ctx, &entry); err != nil {
			t.Fatal(err)
		}
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(listed))
	}
	for i, text := range []string{"first", "second", "third"} {
		if listed[i].Text != text {
			t.Fatalf("entry %d: expected %q, got %q", i, text, listed[i].Text)
		}
	}
	if !listed[0].Time.Equal(base) {
		t.Fatalf("expected %s, got %s", base, listed[0].Time)
	}
}

func TestStoreEncryptsText(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	entry := Entry{ID: "id", Time: time.Now(), Text: "plain text feedback"}
	if err := store.Append(ctx, &entry); err != nil {
		t.Fatal(err)
	}
	if err := store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(&entry))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			if strings.Contains(string(value), entry.Text) {
				t.Fatal("text stored in plain")
			}
			return nil
		})
	}); err != nil {
		t.Fatal(err)
	}
}

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Broadcast(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return n.err
}

func TestServiceSubmit(t *testing.T) {
	service := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), openStore(t))
	service.now = func() time.Time { return time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC) }
	notifier := &recordingNotifier{err: errors.New("telegram is down")}
	service.SetNotifier(notifier)
	ctx := context.Background()

	entry, err := service.Submit(ctx, "  please add a dark mode  ")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Text != "please add a dark mode" {
		t.Fatalf("expected trimmed text, got %q", entry.Text)
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "please add a dark mode") {
		t.Fatalf("unexpected notifications: %q", notifier.messages)
	}

	if _, err := service.Submit(ctx, "   "); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected %q, got %v", ErrEmpty, err)
	}
	if _, err := service.Submit(ctx, strings.Repeat("x", maxTextLength+1)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected %q, got %v", ErrTooLong, err)
	}

	listed, err := service.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(listed))
	}
}

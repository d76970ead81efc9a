package telegram

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

type recordingBroadcaster struct {
	records []slog.Record
}

func (b *recordingBroadcaster) BroadcastSlogRecord(_ context.Context, r slog.Record) error {
	b.records = append(b.records, r)
	return nil
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	broadcaster := &recordingBroadcaster{}
	logger := slog.New(NewSlogHandler(broadcaster, slog.NewTextHandler(&buf, nil))).With("component", "test")

	logger.Info("hello")
	logger.Error("failed", "error", "boom")

	if len(broadcaster.records) != 1 {
		t.Fatalf("expected 1 broadcast record, got %d", len(broadcaster.records))
	}
	record := broadcaster.records[0]
	if record.Message != "failed" {
		t.Fatalf("unexpected message %q", record.Message)
	}
	found := false
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			found = true
		}
		return true
	})
	if !found {
		t.Fatal("expected logger attributes to be broadcast")
	}
	if !bytes.Contains(buf.Bytes(), []byte("msg=hello")) {
		t.Fatalf("expected info record to reach the next handler, got %q", buf.String())
	}
}

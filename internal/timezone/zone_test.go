package timezone

import (
	"testing"
	"time"

	"github.com/attendanceterminal/internal/calendar"
)

func TestToday(t *testing.T) {
	kolkata, err := Load("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %s", err)
	}
	now := time.Date(2025, 8, 17, 20, 0, 0, 0, time.UTC)
	if got := Today(now, kolkata); !got.Equal(calendar.Date(2025, 8, 18)) {
		t.Fatalf("expected 2025-08-18, got %s", got)
	}
	if got := Today(now, time.UTC); !got.Equal(calendar.Date(2025, 8, 17)) {
		t.Fatalf("expected 2025-08-17, got %s", got)
	}
}

func TestLoadEmpty(t *testing.T) {
	location, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if location != time.UTC {
		t.Fatalf("expected UTC, got %s", location)
	}
}

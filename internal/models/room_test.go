package models

import (
	"strings"
	"testing"
)

func TestGenerateRoomCode(t *testing.T) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateRoomCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, ch := range code {
			if !strings.ContainsRune(charset, ch) {
				t.Fatalf("code %q contains invalid character %q", code, ch)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space colliding every time would mean the
	// generator is broken.
	if len(seen) < 2 {
		t.Fatalf("generator produced a single code across 100 draws")
	}
}

func TestRoomDateHelpers(t *testing.T) {
	room := &Room{StartDate: "2025-01-06"}

	start, err := room.StartDateTime()
	if err != nil {
		t.Fatalf("start date: %v", err)
	}
	if start.Format(DateLayout) != "2025-01-06" {
		t.Fatalf("start date parsed as %s", start.Format(DateLayout))
	}

	// Without a current date the room is on its start date.
	current, err := room.CurrentDateTime()
	if err != nil {
		t.Fatalf("current date: %v", err)
	}
	if !current.Equal(start) {
		t.Fatalf("current date should fall back to start date")
	}

	cur := "2025-01-08"
	room.CurrentDate = &cur
	current, err = room.CurrentDateTime()
	if err != nil {
		t.Fatalf("current date: %v", err)
	}
	if current.Format(DateLayout) != "2025-01-08" {
		t.Fatalf("current date parsed as %s", current.Format(DateLayout))
	}
}

package chat

import (
	"testing"
	"time"

	"github.com/rfmelo/barbearia-client/internal/api"
)

func msgAt(id int64, t time.Time) api.Message {
	return api.Message{ID: id, CreatedAt: api.Time{Time: t}}
}

func TestGroupMessagesThreeDayHistory(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.Local)
	older := time.Date(2025, 3, 2, 9, 30, 0, 0, time.Local)

	msgs := []api.Message{
		msgAt(1, older),
		msgAt(2, now.AddDate(0, 0, -1)),
		msgAt(3, now.Add(-2*time.Hour)),
		msgAt(4, now.Add(-time.Hour)),
	}

	groups := GroupMessages(msgs, now)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	wantLabels := []string{"02 de março", "Ontem", "Hoje"}
	for i, want := range wantLabels {
		if groups[i].Label != want {
			t.Errorf("group[%d].Label = %q, want %q", i, groups[i].Label, want)
		}
	}

	today := groups[2].Messages
	if len(today) != 2 || today[0].ID != 3 || today[1].ID != 4 {
		t.Errorf("today's messages = %v, want ids 3,4 in received order", today)
	}
}

func TestGroupMessagesUsesViewerCalendarDay(t *testing.T) {
	// Viewer is on UTC; the timestamps carry foreign offsets.
	now := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)

	plus5 := time.FixedZone("+05:00", 5*60*60)
	minus3 := time.FixedZone("-03:00", -3*60*60)

	msgs := []api.Message{
		// 2025-03-12T04:00+05:00 is 2025-03-11T23:00Z: yesterday for the viewer.
		msgAt(1, time.Date(2025, 3, 12, 4, 0, 0, 0, plus5)),
		// Same viewer-local day as above, different zone: must share the bucket.
		msgAt(2, time.Date(2025, 3, 11, 20, 30, 0, 0, minus3)),
		// 2025-03-11T22:00-03:00 is 2025-03-12T01:00Z: today for the viewer.
		msgAt(3, time.Date(2025, 3, 11, 22, 0, 0, 0, minus3)),
	}

	groups := GroupMessages(msgs, now)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (same viewer day must not split by zone)", len(groups))
	}
	if groups[0].Label != "Ontem" {
		t.Errorf("group[0].Label = %q, want Ontem", groups[0].Label)
	}
	if len(groups[0].Messages) != 2 {
		t.Errorf("yesterday has %d messages, want 2", len(groups[0].Messages))
	}
	if groups[1].Label != "Hoje" {
		t.Errorf("group[1].Label = %q, want Hoje", groups[1].Label)
	}
}

func TestGroupMessagesEmpty(t *testing.T) {
	if groups := GroupMessages(nil, time.Now()); len(groups) != 0 {
		t.Errorf("got %d groups for no messages, want 0", len(groups))
	}
}

func TestDayLabel(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{"today", time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local), "Hoje"},
		{"yesterday", time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local), "Ontem"},
		{"same year", time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local), "05 de janeiro"},
		{"previous year", time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local), "31 de dezembro de 2024"},
		{
			"today expressed in a foreign zone",
			now.Add(2 * time.Hour).In(time.FixedZone("+11:00", 11*60*60)),
			"Hoje",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayLabel(tt.day, now); got != tt.want {
				t.Errorf("DayLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"just now", now.Add(-30 * time.Second), "agora"},
		{"minutes", now.Add(-5 * time.Minute), "5m"},
		{"hours", now.Add(-3 * time.Hour), "3h"},
		{"days", now.AddDate(0, 0, -2), "2d"},
		{"older than a week", time.Date(2025, 2, 1, 10, 0, 0, 0, time.Local), "01/02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelative(tt.t, now); got != tt.want {
				t.Errorf("FormatRelative = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"João Silva", "JS"},
		{"maria", "M"},
		{"Ana Paula Costa", "AP"},
		{"", ""},
		{"  ", ""},
		{"ítalo souza", "ÍS"},
	}

	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

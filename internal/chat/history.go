package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/rfmelo/barbearia-client/internal/api"
)

// MessageGroup is one date divider plus the messages under it, in the order
// the server delivered them.
type MessageGroup struct {
	Label    string
	Day      time.Time
	Messages []api.Message
}

var ptMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// GroupMessages buckets messages by calendar day in the viewer's time zone
// (taken from now), labeled "Hoje", "Ontem" or a formatted date. Groups come
// back in chronological day order; intra-day order is preserved as received.
func GroupMessages(messages []api.Message, now time.Time) []MessageGroup {
	byDay := make(map[time.Time]*MessageGroup)
	var order []time.Time

	for _, msg := range messages {
		// Timestamps may carry their own offset; the calendar day is the
		// viewer's, not the sender's.
		day := truncateToDay(msg.CreatedAt.In(now.Location()))
		group, ok := byDay[day]
		if !ok {
			group = &MessageGroup{Label: DayLabel(day, now), Day: day}
			byDay[day] = group
			order = append(order, day)
		}
		group.Messages = append(group.Messages, msg)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	groups := make([]MessageGroup, 0, len(order))
	for _, day := range order {
		groups = append(groups, *byDay[day])
	}
	return groups
}

// DayLabel renders a calendar day the way the chat header shows it.
func DayLabel(day, now time.Time) string {
	day = truncateToDay(day.In(now.Location()))
	today := truncateToDay(now)
	switch {
	case day.Equal(today):
		return "Hoje"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Ontem"
	}

	label := fmt.Sprintf("%02d de %s", day.Day(), ptMonths[day.Month()-1])
	if day.Year() != now.Year() {
		label += fmt.Sprintf(" de %d", day.Year())
	}
	return label
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatRelative renders a conversation-list timestamp: "agora", minutes,
// hours, days, then dd/mm.
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "agora"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	}
	return t.Format("02/01")
}

// FormatClock renders a message timestamp ("15:04").
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// Initials returns up to two uppercase initials for an avatar.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

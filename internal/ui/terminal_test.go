package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestUpdateBadgeRendersOnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, "cliente", NewToastStack())

	term.UpdateBadge(3)
	term.UpdateBadge(3)
	term.UpdateBadge(3)
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("rendered %d badge lines for an unchanged count, want 1", got)
	}

	term.UpdateBadge(4)
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("rendered %d badge lines after a change, want 2", got)
	}

	term.UpdateBadge(0)
	if !strings.Contains(buf.String(), "sem notificações não lidas") {
		t.Error("zero count did not render the cleared badge")
	}

	term.UpdateBadge(0)
	if got := strings.Count(buf.String(), "\n"); got != 3 {
		t.Errorf("rendered %d lines, want 3 (repeated zero stays silent)", got)
	}
}

func TestUpdateBadgeRendersInitialZero(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, "cliente", NewToastStack())

	term.UpdateBadge(0)
	if buf.Len() == 0 {
		t.Error("first badge update rendered nothing")
	}
}

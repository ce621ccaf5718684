package ui

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rfmelo/barbearia-client/internal/api"
	"github.com/rfmelo/barbearia-client/internal/chat"
	"github.com/rfmelo/barbearia-client/internal/notify"
)

var (
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	styleDivider = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
)

func severityStyle(s notify.Severity) lipgloss.Style {
	switch s {
	case notify.SeveritySuccess:
		return styleSuccess
	case notify.SeverityWarning:
		return styleWarning
	case notify.SeverityError:
		return styleError
	default:
		return styleInfo
	}
}

// BadgeLabel caps the unread badge the way the header widget did.
func BadgeLabel(count int) string {
	if count > 99 {
		return "99+"
	}
	return strconv.Itoa(count)
}

// Terminal renders everything to one writer. It implements both
// notify.Presenter and chat.View; the user's own role decides which chat
// messages render as "sent".
type Terminal struct {
	mu        sync.Mutex
	w         io.Writer
	role      string
	toasts    *ToastStack
	lastBadge int
}

// NewTerminal creates a renderer writing to w. role is the logged-in user's
// role, used to align chat messages.
func NewTerminal(w io.Writer, role string, toasts *ToastStack) *Terminal {
	return &Terminal{w: w, role: role, toasts: toasts, lastBadge: -1}
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

// ShowNotification renders one toast line and records it on the stack.
func (t *Terminal) ShowNotification(n api.Notification, d notify.Display) {
	t.toasts.Push(Toast{
		ID:       n.ID,
		Title:    n.Title,
		Message:  n.Message,
		Glyph:    d.Glyph,
		Severity: d.Severity,
	})

	style := severityStyle(d.Severity)
	t.printf("%s %s %s\n",
		style.Render("["+d.Glyph+"]"),
		styleTitle.Render(n.Title),
		n.Message,
	)
}

// UpdateBadge renders the unread badge; zero clears it. The count arrives on
// every poll, so unchanged values render nothing.
func (t *Terminal) UpdateBadge(unread int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if unread == t.lastBadge {
		return
	}
	t.lastBadge = unread

	if unread <= 0 {
		fmt.Fprintf(t.w, "%s\n", styleMuted.Render("sem notificações não lidas"))
		return
	}
	fmt.Fprintf(t.w, "%s %s\n", styleBadge.Render(BadgeLabel(unread)), styleMuted.Render("não lidas"))
}

// PlaySound rings the terminal bell.
func (t *Terminal) PlaySound() {
	t.printf("\a")
}

// ShowConversations renders the conversation list.
func (t *Terminal) ShowConversations(convs []api.Conversation) {
	if len(convs) == 0 {
		t.printf("%s\n", styleMuted.Render("Nenhuma conversa ainda"))
		return
	}
	for _, c := range convs {
		line := fmt.Sprintf("#%-4d %-3s %-24s %s",
			c.ID,
			chat.Initials(c.OtherUserName),
			c.OtherUserName,
			styleMuted.Render(c.LastMessage),
		)
		if c.UnreadCount > 0 {
			line += " " + styleBadge.Render(BadgeLabel(c.UnreadCount))
		}
		t.printf("%s\n", line)
	}
}

// ShowHistory renders grouped history with date dividers.
func (t *Terminal) ShowHistory(groups []chat.MessageGroup) {
	for _, g := range groups {
		t.printf("%s\n", styleDivider.Render("── "+g.Label+" ──"))
		for _, m := range g.Messages {
			t.renderMessage(m)
		}
	}
}

// AppendMessage renders one incoming message at the bottom.
func (t *Terminal) AppendMessage(msg api.Message) {
	t.renderMessage(msg)
}

func (t *Terminal) renderMessage(m api.Message) {
	clock := styleMuted.Render(chat.FormatClock(m.CreatedAt.Time))
	name := m.SenderName
	style := styleInfo
	if m.SenderType == t.role {
		name = "você"
		style = styleSuccess
	}
	t.printf("%s %s: %s\n", clock, style.Render(name), m.Body)
}

// SetTypingIndicator shows or hides the "typing" hint.
func (t *Terminal) SetTypingIndicator(active bool) {
	if active {
		t.printf("%s\n", styleMuted.Render("digitando..."))
	}
}

// SetConnected surfaces channel state changes as soft toasts.
func (t *Terminal) SetConnected(connected bool) {
	if connected {
		t.printf("%s\n", styleSuccess.Render("Conectado"))
		return
	}
	t.printf("%s\n", styleError.Render("Desconectado - Tentando reconectar..."))
}

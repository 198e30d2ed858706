// Package notify renders the non-blocking notifications the client shows
// after auth operations: a titled line, optionally followed by detail, in
// one of three kinds.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Kind selects how a notification is styled.
type Kind int

const (
	Normal Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "normal"
	}
}

// Notification is one message for the user.
type Notification struct {
	Title string
	Body  string
	Kind  Kind
}

// Notifier delivers notifications. Implementations must not block the
// caller on user interaction.
type Notifier interface {
	Notify(n Notification)
}

// Theme holds the ANSI 256 colors used for each kind.
type Theme struct {
	Normal  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Body    lipgloss.Color
}

// DefaultTheme picks ANSI 256 colors readable on dark and light backgrounds.
var DefaultTheme = Theme{
	Normal:  lipgloss.Color("250"),
	Success: lipgloss.Color("71"),
	Error:   lipgloss.Color("167"),
	Body:    lipgloss.Color("245"),
}

// Terminal writes styled notifications to a writer. Color is dropped
// automatically when the writer is not a terminal.
type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	theme    Theme
}

func NewTerminal(w io.Writer, theme Theme) *Terminal {
	return &Terminal{w: w, renderer: lipgloss.NewRenderer(w), theme: theme}
}

func (t *Terminal) color(k Kind) lipgloss.Color {
	switch k {
	case Success:
		return t.theme.Success
	case Error:
		return t.theme.Error
	default:
		return t.theme.Normal
	}
}

// Render returns the text Notify would write for n.
func (t *Terminal) Render(n Notification) string {
	badge := t.renderer.NewStyle().
		Bold(true).
		Foreground(t.color(n.Kind)).
		Render(fmt.Sprintf("[%s]", n.Kind))
	title := t.renderer.NewStyle().Bold(true).Render(n.Title)

	var b strings.Builder
	b.WriteString(badge)
	b.WriteString(" ")
	b.WriteString(title)
	if body := strings.TrimSpace(n.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(t.renderer.NewStyle().
			Foreground(t.theme.Body).
			PaddingLeft(2).
			Render(body))
	}
	return b.String()
}

func (t *Terminal) Notify(n Notification) {
	out := t.Render(n)
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, out)
}

package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal_NotifyPlainWhenNotATTY(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, DefaultTheme)

	term.Notify(Notification{Title: "Login successful", Kind: Success})
	term.Notify(Notification{Title: "Login failed", Body: "Invalid credentials", Kind: Error})
	term.Notify(Notification{Title: "Check your email"})

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "no ANSI escapes expected for a non-terminal writer")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "[success] Login successful", lines[0])
	assert.Equal(t, "[error] Login failed", lines[1])
	assert.Equal(t, "  Invalid credentials", lines[2])
	assert.Equal(t, "[normal] Check your email", lines[3])
}

func TestTerminal_RenderSkipsBlankBody(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, DefaultTheme)
	assert.Equal(t, "[error] Oops", term.Render(Notification{Title: "Oops", Body: "   ", Kind: Error}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
}

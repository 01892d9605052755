package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in a form input.
const maxInputLen = 512

// editKey applies a keystroke to an inline text input. Backspace removes
// one rune; printable runes (including pasted text) are appended up to
// maxInputLen. Every other key leaves text unchanged.
func editKey(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if text == "" {
			return text
		}
		_, size := utf8.DecodeLastRuneInString(text)
		return text[:len(text)-size]
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return text
		}
		room := maxInputLen - utf8.RuneCountInString(text)
		if room <= 0 {
			return text
		}
		runes := msg.Runes
		if msg.Type == tea.KeySpace && len(runes) == 0 {
			runes = []rune{' '}
		}
		if len(runes) > room {
			runes = runes[:room]
		}
		return text + strings.Map(dropControl, string(runes))
	}
	return text
}

func dropControl(r rune) rune {
	if r < 0x20 || r == 0x7f {
		return -1
	}
	return r
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a single form input with an optional cursor. Secret
// values are masked.
func renderInput(value, placeholder string, secret, focused bool) string {
	shown := value
	if secret {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	cursor := ""
	if focused {
		cursor = accentStyle.Render("█")
	}
	if shown == "" && !focused {
		return inputPlaceholderStyle.Render(placeholder)
	}
	if focused {
		return selectedStyle.Render(shown) + cursor
	}
	return normalStyle.Render(shown)
}

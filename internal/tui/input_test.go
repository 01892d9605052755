package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditKeyAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   tea.KeyMsg
		want  string
	}{
		{"append to empty", "", runes("a"), "a"},
		{"append letter", "hel", runes("l"), "hell"},
		{"append digit", "abc", runes("1"), "abc1"},
		{"append space", "hello", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "hello "},
		{"append bare space key", "hello", tea.KeyMsg{Type: tea.KeySpace}, "hello "},
		{"append special", "abc", runes("!"), "abc!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editKey(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editKey(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditKeyBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"backspace on single char", "a", ""},
		{"backspace on longer string", "hello", "hell"},
		{"backspace on empty does nothing", "", ""},
		{"backspace removes whole rune", "hellé", "hell"},
		{"backspace removes emoji", "hello\U0001f600", "hello"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editKey(tc.start, tea.KeyMsg{Type: tea.KeyBackspace})
			if got != tc.want {
				t.Errorf("editKey(%q, backspace) = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditKeyIgnoresNonPrintableKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeyUp},
		{Type: tea.KeyDown},
		{Type: tea.KeyLeft},
		{Type: tea.KeyRight},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyCtrlS},
		{Type: tea.KeyTab},
		{Type: tea.KeyShiftTab},
		{Type: tea.KeyF1},
		{Type: tea.KeyPgUp},
		{Type: tea.KeyHome},
		{Type: tea.KeyEnter, Alt: true},
		{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true},
	}

	original := "hello"
	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			got := editKey(original, key)
			if got != original {
				t.Errorf("editKey(%q, %q) = %q, want unchanged %q", original, key, got, original)
			}
		})
	}
}

func TestEditKeyPaste(t *testing.T) {
	tests := []struct {
		name  string
		start string
		paste string
		want  string
	}{
		{"paste into empty", "", "hello world", "hello world"},
		{"paste appends", "hi ", "there", "hi there"},
		{"paste that spells a key name", "", "enter", "enter"},
		{"paste drops control characters", "", "a\tb\nc", "abc"},
		{"paste clamped at limit", strings.Repeat("a", maxInputLen-3), "abcdef", strings.Repeat("a", maxInputLen-3) + "abc"},
		{"paste rejected at limit", strings.Repeat("a", maxInputLen), "hello", strings.Repeat("a", maxInputLen)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editKey(tc.start, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tc.paste), Paste: true})
			if got != tc.want {
				t.Errorf("editKey(%q, paste %q) = %q, want %q", tc.start, tc.paste, got, tc.want)
			}
		})
	}
}

func TestEditKeyMaxInputLenCountsRunes(t *testing.T) {
	cjkAtLimit := strings.Repeat("你", maxInputLen)
	if got := editKey(cjkAtLimit, runes("好")); got != cjkAtLimit {
		t.Errorf("CJK at limit accepted a new rune: %d runes", len([]rune(got)))
	}
	below := strings.Repeat("你", maxInputLen-1)
	if got := editKey(below, runes("好")); got != below+"好" {
		t.Errorf("CJK below limit rejected a new rune: %d runes", len([]rune(got)))
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hell…"},
		{"empty string", "", 5, ""},
		{"single char over", "ab", 1, "…"},
		{"emoji", "\U0001f600\U0001f601\U0001f602", 2, "\U0001f600…"},
		{"CJK chars", "你好世界", 3, "你好…"},
		{"multi-byte at boundary", "cafés are nice", 5, "café…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncStr(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateToHeightLimitsLines(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	result := truncateToHeight(input, 3)

	lines := strings.Count(result, "\n")
	if lines > 3 {
		t.Errorf("truncateToHeight(5 lines, 3) produced %d newlines, want <= 3", lines)
	}
	if !strings.Contains(result, "line1") {
		t.Errorf("truncateToHeight result missing first line: %q", result)
	}
	if strings.Contains(result, "line4") {
		t.Errorf("truncateToHeight result should not contain line4: %q", result)
	}
}

func TestTruncateToHeightReturnsFullStringWhenWithinLimit(t *testing.T) {
	input := "line1\nline2\nline3\n"
	if result := truncateToHeight(input, 10); result != input {
		t.Errorf("truncateToHeight with maxLines > linecount: got %q, want %q", result, input)
	}
	if result := truncateToHeight(input, 3); result != input {
		t.Errorf("truncateToHeight at exact limit: got %q, want %q", result, input)
	}
}

func TestTruncateToHeightNonPositiveMaxReturnsAll(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	for _, n := range []int{0, -1} {
		if result := truncateToHeight(input, n); result != input {
			t.Errorf("truncateToHeight(_, %d) should return input unchanged, got %q", n, result)
		}
	}
}

func TestRenderInputMasksSecrets(t *testing.T) {
	got := renderInput("hunter2", "", true, false)
	if strings.Contains(got, "hunter2") {
		t.Errorf("secret input rendered in clear: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("•", 7)) {
		t.Errorf("secret input not masked per rune: %q", got)
	}
	if got := renderInput("", "email", false, false); !strings.Contains(got, "email") {
		t.Errorf("empty unfocused input should show placeholder, got %q", got)
	}
}

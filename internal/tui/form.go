package tui

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/pkg/client"
)

type formField struct {
	key    string
	label  string
	secret bool
	value  string
}

// form is a vertical list of text inputs with server-side validation messages.
type form struct {
	fields  []formField
	focus   int
	errs    map[string][]string
	message string
	busy    bool
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

// update applies a key to the form. submit is true when the user asked to
// send it: enter on the last field, or ctrl+s anywhere.
func (f form) update(msg tea.KeyMsg) (form, bool) {
	if len(f.fields) == 0 || f.busy {
		return f, false
	}
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f, true
		}
		f.focus++
	case "ctrl+s":
		return f, true
	default:
		fields := slices.Clone(f.fields)
		fields[f.focus].value = editKey(fields[f.focus].value, msg)
		f.fields = fields
	}
	return f, false
}

func (f form) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.value)
		}
	}
	return ""
}

// raw returns the untrimmed value, for passwords.
func (f form) raw(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return fld.value
		}
	}
	return ""
}

func (f form) set(key, value string) form {
	fields := slices.Clone(f.fields)
	for i := range fields {
		if fields[i].key == key {
			fields[i].value = value
		}
	}
	f.fields = fields
	return f
}

// fail records a failed submission. Field messages found in details are
// shown under their inputs; the rest are folded into the summary line.
func (f form) fail(message string, details json.RawMessage) form {
	f.busy = false
	f.message = message
	f.errs = nil
	all := client.FieldErrors(details)
	if len(all) == 0 {
		return f
	}
	f.errs = make(map[string][]string)
	var other []string
	for field, msgs := range all {
		if f.has(field) {
			f.errs[field] = msgs
			continue
		}
		other = append(other, strings.Join(msgs, " "))
	}
	sort.Strings(other)
	if len(other) > 0 {
		f.message = strings.Join(other, " ")
	}
	return f
}

func (f form) has(key string) bool {
	for _, fld := range f.fields {
		if fld.key == key {
			return true
		}
	}
	return false
}

func (f form) clear() form {
	fields := slices.Clone(f.fields)
	for i := range fields {
		fields[i].value = ""
	}
	return form{fields: fields}
}

func (f form) View() string {
	width := 0
	for _, fld := range f.fields {
		width = max(width, len(fld.label))
	}
	var b strings.Builder
	for i, fld := range f.fields {
		focused := i == f.focus && !f.busy
		label := dimStyle.Render(fmt.Sprintf("%-*s", width, fld.label))
		if focused {
			label = inputPromptStyle.Render(fmt.Sprintf("%-*s", width, fld.label))
		}
		fmt.Fprintf(&b, "  %s  %s\n", label, renderInput(fld.value, "", fld.secret, focused))
		for _, e := range f.errs[fld.key] {
			fmt.Fprintf(&b, "  %s  %s\n", strings.Repeat(" ", width), errorStyle.Render(e))
		}
	}
	if f.busy {
		b.WriteString("\n  " + dimStyle.Render("sending...") + "\n")
	} else if f.message != "" {
		b.WriteString("\n  " + errorStyle.Render(f.message) + "\n")
	}
	return b.String()
}

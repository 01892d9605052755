package tui

import (
	"encoding/json"
	"strings"
	"testing"
)

func testForm() form {
	return newForm(
		formField{key: "email", label: "Email"},
		formField{key: "password", label: "Password", secret: true},
	)
}

func TestFormFocusCycles(t *testing.T) {
	f := testForm()
	f, _ = f.update(key("tab"))
	if f.focus != 1 {
		t.Fatalf("focus after tab = %d, want 1", f.focus)
	}
	f, _ = f.update(key("tab"))
	if f.focus != 0 {
		t.Errorf("focus should wrap to 0, got %d", f.focus)
	}
}

func TestFormEnterAdvancesThenSubmits(t *testing.T) {
	f := testForm()
	f, submit := f.update(key("enter"))
	if submit || f.focus != 1 {
		t.Fatalf("enter on first field: submit=%v focus=%d", submit, f.focus)
	}
	_, submit = f.update(key("enter"))
	if !submit {
		t.Error("enter on last field should submit")
	}
	_, submit = testForm().update(key("ctrl+s"))
	if !submit {
		t.Error("ctrl+s should submit from any field")
	}
}

func TestFormTypingEditsFocusedField(t *testing.T) {
	f := testForm()
	for _, r := range " a@b.c " {
		f, _ = f.update(runes(string(r)))
	}
	f, _ = f.update(key("tab"))
	f, _ = f.update(runes(" pw "))
	if got := f.value("email"); got != "a@b.c" {
		t.Errorf("value(email) = %q, want trimmed a@b.c", got)
	}
	if got := f.raw("password"); got != " pw " {
		t.Errorf("raw(password) = %q, want untrimmed", got)
	}
}

func TestFormUpdateDoesNotAliasPreviousState(t *testing.T) {
	before := testForm()
	after, _ := before.update(runes("x"))
	if before.value("email") != "" {
		t.Errorf("original form mutated: %q", before.value("email"))
	}
	if after.value("email") != "x" {
		t.Errorf("updated form = %q", after.value("email"))
	}
}

func TestFormBusyIgnoresKeys(t *testing.T) {
	f := testForm()
	f.busy = true
	f, submit := f.update(key("enter"))
	if submit || f.focus != 0 {
		t.Error("busy form should ignore keys")
	}
}

func TestFormFailSplitsFieldErrors(t *testing.T) {
	details := json.RawMessage(`{"email":["Enter a valid email address."],"non_field_errors":["Account locked."]}`)
	f := testForm().fail("Registration failed", details)

	if got := f.errs["email"]; len(got) != 1 || got[0] != "Enter a valid email address." {
		t.Errorf("email errors = %v", got)
	}
	if f.message != "Account locked." {
		t.Errorf("message = %q, want unmatched field errors folded in", f.message)
	}
	view := f.View()
	if !strings.Contains(view, "Enter a valid email address.") || !strings.Contains(view, "Account locked.") {
		t.Errorf("view missing errors:\n%s", view)
	}
}

func TestFormFailWithoutDetails(t *testing.T) {
	f := testForm()
	f.busy = true
	f = f.fail("Invalid credentials", nil)
	if f.busy {
		t.Error("fail should clear busy")
	}
	if f.errs != nil || f.message != "Invalid credentials" {
		t.Errorf("errs=%v message=%q", f.errs, f.message)
	}
}

func TestFormSetAndClear(t *testing.T) {
	f := testForm().set("email", "a@b.c")
	if f.value("email") != "a@b.c" {
		t.Fatalf("set did not apply: %q", f.value("email"))
	}
	f.message = "old"
	f = f.clear()
	if f.value("email") != "" || f.message != "" {
		t.Errorf("clear left state: %q %q", f.value("email"), f.message)
	}
}

func TestFormViewMasksSecrets(t *testing.T) {
	f := testForm().set("password", "hunter2")
	if strings.Contains(f.View(), "hunter2") {
		t.Error("password rendered in clear")
	}
}

package tui

import (
	"strings"
	"testing"
)

func TestStatusStyleKnownStatus(t *testing.T) {
	for _, status := range []string{"active", "pending", "in_progress", "expired", "Vacant"} {
		t.Run(status, func(t *testing.T) {
			rendered := StatusStyle(status).Render(status)
			if !strings.Contains(rendered, status) {
				t.Errorf("StatusStyle(%q).Render(%q) = %q, want to contain %q", status, status, rendered, status)
			}
		})
	}
}

func TestStatusStyleUnknownFallback(t *testing.T) {
	rendered := StatusStyle("nonexistent-status").Render("nonexistent-status")
	if !strings.Contains(rendered, "nonexistent-status") {
		t.Errorf("StatusStyle fallback did not render text: %q", rendered)
	}
}

func TestPriorityStyle(t *testing.T) {
	for _, p := range []string{"low", "medium", "high", "emergency", ""} {
		t.Run(p, func(t *testing.T) {
			if priorityStyle(p).Render("P") == "" {
				t.Errorf("priorityStyle(%q).Render() returned empty string", p)
			}
		})
	}
}

func TestHelpEntryFormat(t *testing.T) {
	result := helpEntry("q", "quit")
	if !strings.Contains(result, "q") {
		t.Errorf("helpEntry('q','quit') does not contain key 'q': %q", result)
	}
	if !strings.Contains(result, "quit") {
		t.Errorf("helpEntry('q','quit') does not contain label 'quit': %q", result)
	}
}

func TestHelpBarPairs(t *testing.T) {
	bar := helpBar("j/k", "nav", "enter", "open", "dangling")
	for _, want := range []string{"j/k", "nav", "enter", "open"} {
		if !strings.Contains(bar, want) {
			t.Errorf("helpBar missing %q: %q", want, bar)
		}
	}
	if strings.Contains(bar, "dangling") {
		t.Errorf("helpBar rendered an unpaired key: %q", bar)
	}
}

func TestHelpLinks(t *testing.T) {
	links := helpLinks("http://localhost:8000/api")
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	if links[0].url != "http://localhost:8000/api" {
		t.Errorf("API root = %q", links[0].url)
	}
	if links[1].url != "http://localhost:8000/admin/" {
		t.Errorf("admin = %q, want http://localhost:8000/admin/", links[1].url)
	}
	if links[2].url != "http://localhost:8000" {
		t.Errorf("web app = %q", links[2].url)
	}
}

func TestHelpLinksUnparseable(t *testing.T) {
	if links := helpLinks("not a url"); len(links) != 1 {
		t.Errorf("got %d links for relative base, want 1", len(links))
	}
}

func TestHelpViewCursor(t *testing.T) {
	view := helpView(helpLinks("http://localhost:8000/api"), 1)
	if !strings.Contains(view, "> ") {
		t.Errorf("help view missing cursor marker:\n%s", view)
	}
	if !strings.Contains(view, "estate login") {
		t.Errorf("help view missing commands:\n%s", view)
	}
}

func TestRenderLogoLetters(t *testing.T) {
	logo := renderLogo(3)
	for _, r := range "ESTATE" {
		if !strings.ContainsRune(logo, r) {
			t.Errorf("logo missing %q", r)
		}
	}
}

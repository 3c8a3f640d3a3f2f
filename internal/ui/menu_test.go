package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMenuModel(t *testing.T) {
	m := NewMenuModel()

	if m.cursor != 0 {
		t.Errorf("expected cursor 0, got %d", m.cursor)
	}

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	model, _ := m.Update(msg)
	m = model.(MenuModel)
	if m.cursor != 1 {
		t.Errorf("expected cursor 1 after 'j', got %d", m.cursor)
	}

	msg = tea.KeyMsg{Type: tea.KeyEnter}
	model, cmd := m.Update(msg)
	m = model.(MenuModel)
	if m.Selected() != "board" {
		t.Errorf("expected selection 'board', got %s", m.Selected())
	}
	if cmd == nil {
		t.Error("expected quit command after enter")
	}

	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	model, _ = m.Update(msg)
	m = model.(MenuModel)
	if !m.quitting {
		t.Error("expected quitting true after 'q'")
	}
	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(MenuModel)
	if m.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.cursor)
	}

	for range len(m.choices) + 3 {
		model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = model.(MenuModel)
	}
	if m.cursor != len(m.choices)-1 {
		t.Errorf("expected cursor at last choice, got %d", m.cursor)
	}
}

func TestMenuChoices(t *testing.T) {
	m := NewMenuModel()
	view := m.View()
	for _, cmd := range []string{"status", "board", "list-projects", "list-tasks", "list-members", "team", "export", "mcp", "init"} {
		if !strings.Contains(view, cmd) {
			t.Errorf("expected %q in menu", cmd)
		}
	}
}

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/taskdeck/pkg/models"
)

func TestBoard(t *testing.T) {
	b := NewBoard(160)
	b.Title = "Sprint"

	b.Add(models.TaskStatusTodo, Card{Title: "write docs", Due: "2024-03-01", Priority: models.PriorityLow})
	b.Add(models.TaskStatusBlocked, Card{Title: "deploy", Due: "2024-02-01", Priority: models.PriorityHigh, Overdue: true, Assignee: "Ana"})

	view := b.View()

	for _, want := range []string{"Sprint", "To Do (1)", "In Progress (0)", "Completed (0)", "Blocked (1)", "write docs", "deploy", "overdue", "Ana"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestBoardColumnOrder(t *testing.T) {
	b := NewBoard(200)
	if len(b.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(b.Columns))
	}

	view := b.View()
	todo := strings.Index(view, "To Do")
	progress := strings.Index(view, "In Progress")
	blocked := strings.Index(view, "Blocked")
	if !(todo < progress && progress < blocked) {
		t.Errorf("expected status order, got indices %d, %d, %d", todo, progress, blocked)
	}
}

func TestBoardKeepsCardOrder(t *testing.T) {
	b := NewBoard(200)
	b.Add(models.TaskStatusTodo, Card{Title: "first"})
	b.Add(models.TaskStatusTodo, Card{Title: "second"})

	view := b.View()
	if strings.Index(view, "first") > strings.Index(view, "second") {
		t.Error("expected cards in insertion order")
	}
}

func TestBoardEmptyState(t *testing.T) {
	view := NewBoard(120).View()
	if strings.Count(view, "No tasks") != 4 {
		t.Errorf("expected placeholder in every column")
	}
}

func TestBoardIgnoresUnknownStatus(t *testing.T) {
	b := NewBoard(120)
	b.Add("archived", Card{Title: "lost"})
	if strings.Contains(b.View(), "lost") {
		t.Error("expected unknown status to be ignored")
	}
}

func TestBoardWidth(t *testing.T) {
	b := NewBoard(120)
	b.Title = ""
	b.Add(models.TaskStatusInProgress, Card{Title: "A very long task title that should wrap inside its column box", Due: "2024-01-01"})

	if w := lipgloss.Width(b.View()); w > 130 {
		t.Errorf("expected board to fit about 120 columns, got %d", w)
	}
}

func TestBadge(t *testing.T) {
	if !strings.Contains(Badge(models.PriorityHigh.Meta()), "High") {
		t.Error("expected badge to contain label")
	}
}

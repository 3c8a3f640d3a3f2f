package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/taskdeck/pkg/models"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	boardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Padding(0, 1)

	columnTitleStyle = lipgloss.NewStyle().Bold(true)

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Card is one task as shown on the board.
type Card struct {
	Title    string
	Assignee string
	Due      string
	Priority models.Priority
	Overdue  bool
}

type Column struct {
	Status models.TaskStatus
	Cards  []Card
}

// Board renders tasks as side-by-side status columns.
type Board struct {
	Columns []Column
	Width   int
	Title   string
}

// NewBoard returns a board with one empty column per task status.
func NewBoard(width int) *Board {
	cols := make([]Column, 0, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		cols = append(cols, Column{Status: s, Cards: make([]Card, 0)})
	}
	return &Board{
		Columns: cols,
		Width:   width,
		Title:   "Task Board",
	}
}

// Add appends card to the column for status. Unknown statuses are ignored.
func (b *Board) Add(status models.TaskStatus, card Card) {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			b.Columns[i].Cards = append(b.Columns[i].Cards, card)
			return
		}
	}
}

func (b *Board) View() string {
	colWidth := b.Width / max(len(b.Columns), 1)
	boxes := make([]string, 0, len(b.Columns))
	for _, col := range b.Columns {
		boxes = append(boxes, b.renderColumn(col, colWidth))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	if b.Title != "" {
		return boardHeaderStyle.Render(b.Title) + "\n" + content
	}
	return content
}

func (b *Board) renderColumn(col Column, width int) string {
	meta := col.Status.Meta()
	color := lipgloss.Color(meta.Color)

	innerWidth := max(width-4, 0)

	title := columnTitleStyle.Foreground(color).Render(fmt.Sprintf("%s (%d)", meta.Label, len(col.Cards)))

	var lines []string
	if len(col.Cards) == 0 {
		lines = append(lines, mutedStyle.Render("No tasks"))
	}
	for _, c := range col.Cards {
		name := lipgloss.NewStyle().Width(innerWidth).Render(c.Title)
		lines = append(lines, name)

		detail := fmt.Sprintf("%s · %s", Badge(c.Priority.Meta()), c.Due)
		if c.Assignee != "" {
			detail += " · " + c.Assignee
		}
		if c.Overdue {
			detail += " " + overdueStyle.Render("overdue")
		}
		lines = append(lines, detail, "")
	}

	body := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	return columnStyle.BorderForeground(color).Width(width).Render(title + "\n" + body)
}

// Badge renders a label in its display color.
func Badge(meta models.Meta) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(meta.Color)).Render(meta.Label)
}

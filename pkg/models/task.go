package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskStatuses lists every task status in board column order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusBlocked,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	AssigneeID  string     `json:"assignee_id"`
	DueDate     Date       `json:"due_date"`
	ProjectID   string     `json:"project_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Comments    []Comment  `json:"comments"`
}

// Validate checks the closed enumerations and required fields of a task.
func (t *Task) Validate() error {
	if t.Title == "" {
		return &ValidationError{Entity: "task", ID: t.ID, Field: "title", Err: ErrMissingField}
	}
	if t.ProjectID == "" {
		return &ValidationError{Entity: "task", ID: t.ID, Field: "project_id", Err: ErrMissingField}
	}
	if t.AssigneeID == "" {
		return &ValidationError{Entity: "task", ID: t.ID, Field: "assignee_id", Err: ErrMissingField}
	}
	if !t.Status.Valid() {
		return &ValidationError{Entity: "task", ID: t.ID, Field: "status", Value: string(t.Status), Err: ErrInvalidStatus}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Entity: "task", ID: t.ID, Field: "priority", Value: string(t.Priority), Err: ErrInvalidPriority}
	}
	if t.DueDate.IsZero() {
		return &ValidationError{Entity: "task", ID: t.ID, Field: "due_date", Err: ErrInvalidDate}
	}
	for _, c := range t.Comments {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Comments != nil {
		c.Comments = make([]Comment, len(t.Comments))
		copy(c.Comments, t.Comments)
	}
	return &c
}

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func validTask() *Task {
	return &Task{
		ID:         "t1",
		Title:      "Write docs",
		Status:     TaskStatusTodo,
		Priority:   PriorityMedium,
		AssigneeID: "m1",
		ProjectID:  "p1",
		DueDate:    NewDate(2024, time.March, 1),
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"bad status", func(t *Task) { t.Status = "done" }, ErrInvalidStatus},
		{"empty status", func(t *Task) { t.Status = "" }, ErrInvalidStatus},
		{"bad priority", func(t *Task) { t.Priority = "urgent" }, ErrInvalidPriority},
		{"missing title", func(t *Task) { t.Title = "" }, ErrMissingField},
		{"missing project", func(t *Task) { t.ProjectID = "" }, ErrMissingField},
		{"missing due date", func(t *Task) { t.DueDate = Date{} }, ErrInvalidDate},
		{"bad comment", func(t *Task) { t.Comments = []Comment{{ID: "c1", AuthorID: "m1"}} }, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestProjectValidateProgress(t *testing.T) {
	p := &Project{
		ID:        "p1",
		Title:     "CRM",
		Status:    ProjectStatusPlanning,
		Priority:  PriorityLow,
		StartDate: MustDate("2024-04-01"),
		EndDate:   MustDate("2024-08-30"),
	}
	for _, progress := range []int{0, 50, 100} {
		p.Progress = progress
		if err := p.Validate(); err != nil {
			t.Errorf("progress %d: unexpected error %v", progress, err)
		}
	}
	for _, progress := range []int{-1, 101} {
		p.Progress = progress
		if err := p.Validate(); !errors.Is(err, ErrInvalidProgress) {
			t.Errorf("progress %d: expected ErrInvalidProgress, got %v", progress, err)
		}
	}

	p.Progress = 10
	p.EndDate = MustDate("2024-03-01")
	if err := p.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for end before start, got %v", err)
	}
}

func TestMemberValidateRole(t *testing.T) {
	m := &Member{ID: "1", Name: "Ana", Role: "owner"}
	if err := m.Validate(); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	m.Role = RoleAdmin
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-30")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if !d.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", d.Time)
	}

	d, err = ParseDate("2024-06-30T18:45:00-03:00")
	if err != nil {
		t.Fatalf("ParseDate RFC3339 failed: %v", err)
	}
	if d.String() != "2024-06-30" {
		t.Errorf("expected calendar day 2024-06-30, got %s", d)
	}

	if _, err := ParseDate("30/06/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"due_date":"2024-01-20"}`), &task); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if task.DueDate.String() != "2024-01-20" {
		t.Errorf("expected 2024-01-20, got %s", task.DueDate)
	}

	data, err := json.Marshal(map[string]Date{"d": task.DueDate})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"d":"2024-01-20"}` {
		t.Errorf("unexpected json %s", data)
	}

	if err := json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &task); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMetaCoversEveryValue(t *testing.T) {
	for _, s := range TaskStatuses {
		if s.Meta().Label == string(s) {
			t.Errorf("task status %s has no label", s)
		}
	}
	for _, s := range ProjectStatuses {
		if s.Meta().Label == string(s) {
			t.Errorf("project status %s has no label", s)
		}
	}
	for _, p := range Priorities {
		if p.Meta().Label == string(p) {
			t.Errorf("priority %s has no label", p)
		}
	}
	for _, r := range Roles {
		if r.Meta().Label == string(r) {
			t.Errorf("role %s has no label", r)
		}
	}
	if got := TaskStatus("archived").Meta(); got.Label != "archived" || got.Color == "" {
		t.Errorf("unexpected fallback meta %+v", got)
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	task := validTask()
	task.Comments = []Comment{{ID: "c1", Content: "hi", AuthorID: "m1"}}
	c := task.Clone()
	c.Comments[0].Content = "changed"
	if task.Comments[0].Content != "hi" {
		t.Error("task clone shares comments")
	}

	p := &Project{MemberIDs: []string{"1", "2"}}
	pc := p.Clone()
	pc.MemberIDs[0] = "9"
	if p.MemberIDs[0] != "1" {
		t.Error("project clone shares member ids")
	}
}

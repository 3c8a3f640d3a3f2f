package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/ldi/taskdeck/internal/query"
	"github.com/ldi/taskdeck/internal/resolve"
	"github.com/ldi/taskdeck/internal/stats"
	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Clock supplies "now" for overdue and deadline calculations.
type Clock func() time.Time

// NewServer creates a new MCP server.
func NewServer(st *store.Store, now Clock) *server.MCPServer {
	if now == nil {
		now = time.Now
	}
	s := server.NewMCPServer("Taskdeck", "0.1.0")

	// Queries
	s.AddTool(mcp.NewTool("list_members",
		mcp.WithDescription("List team members, optionally filtered by search text (name or email) and role."),
		mcp.WithString("search_text", mcp.Description("Case-insensitive text to find in name or email")),
		mcp.WithString("role", mcp.Description("Role (admin|manager|member|all)")),
	), listMembersHandler(st))

	s.AddTool(mcp.NewTool("filter_tasks",
		mcp.WithDescription("List tasks matching all given filters, in creation order."),
		mcp.WithString("search_text", mcp.Description("Case-insensitive text to find in title or description")),
		mcp.WithString("status", mcp.Description("Status (todo|in-progress|completed|blocked|all)")),
		mcp.WithString("priority", mcp.Description("Priority (low|medium|high|all)")),
		mcp.WithString("project_id", mcp.Description("Project ID")),
		mcp.WithString("assignee_id", mcp.Description("Assignee member ID")),
	), filterTasksHandler(st, now))

	s.AddTool(mcp.NewTool("filter_projects",
		mcp.WithDescription("List projects matching all given filters, in creation order."),
		mcp.WithString("search_text", mcp.Description("Case-insensitive text to find in title or description")),
		mcp.WithString("status", mcp.Description("Status (planning|in-progress|completed|on-hold|all)")),
		mcp.WithString("priority", mcp.Description("Priority (low|medium|high|all)")),
	), filterProjectsHandler(st, now))

	s.AddTool(mcp.NewTool("task_board",
		mcp.WithDescription("Group the matching tasks into one column per status."),
		mcp.WithString("search_text", mcp.Description("Case-insensitive text to find in title or description")),
		mcp.WithString("priority", mcp.Description("Priority (low|medium|high|all)")),
		mcp.WithString("project_id", mcp.Description("Project ID")),
		mcp.WithString("assignee_id", mcp.Description("Assignee member ID")),
	), taskBoardHandler(st, now))

	s.AddTool(mcp.NewTool("status_counts",
		mcp.WithDescription("Count tasks and projects by status and priority, and members by role."),
	), statusCountsHandler(st))

	s.AddTool(mcp.NewTool("member_stats",
		mcp.WithDescription("Workload statistics for one member."),
		mcp.WithString("member_id", mcp.Description("Member ID"), mcp.Required()),
	), memberStatsHandler(st))

	s.AddTool(mcp.NewTool("team_stats",
		mcp.WithDescription("Workload statistics for every member plus team totals."),
	), teamStatsHandler(st))

	s.AddTool(mcp.NewTool("project_detail",
		mcp.WithDescription("A project with its team, its tasks and progress figures."),
		mcp.WithString("project_id", mcp.Description("Project ID"), mcp.Required()),
	), projectDetailHandler(st, now))

	s.AddTool(mcp.NewTool("dashboard",
		mcp.WithDescription("Overview: totals, recent projects and upcoming tasks."),
	), dashboardHandler(st, now))

	// Staged creation
	s.AddTool(mcp.NewTool("create_member",
		mcp.WithDescription("Propose a new team member. Changes are staged and must be committed to take effect."),
		mcp.WithString("name", mcp.Description("Full name"), mcp.Required()),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("avatar", mcp.Description("Avatar URL")),
		mcp.WithString("role", mcp.Description("Role (admin|manager|member)"), mcp.DefaultString(string(models.RoleMember))),
		mcp.WithString("id", mcp.Description("Member ID (generated when empty)")),
		mcp.WithString("session_id", mcp.Description("Session ID for staging changes (defaults to 'default').")),
	), createMemberHandler(st))

	s.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Propose a new project. Changes are staged and must be committed to take effect."),
		mcp.WithString("title", mcp.Description("Project title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Project description")),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD)"), mcp.Required()),
		mcp.WithString("status", mcp.Description("Status (planning|in-progress|completed|on-hold)"), mcp.DefaultString(string(models.ProjectStatusPlanning))),
		mcp.WithString("priority", mcp.Description("Priority (low|medium|high)"), mcp.DefaultString(string(models.PriorityMedium))),
		mcp.WithNumber("progress", mcp.Description("Progress percentage (0-100)")),
		mcp.WithArray("member_ids", mcp.Description("IDs of the team members"), mcp.WithStringItems()),
		mcp.WithString("id", mcp.Description("Project ID (generated when empty)")),
		mcp.WithString("session_id", mcp.Description("Session ID for staging changes (defaults to 'default').")),
	), createProjectHandler(st))

	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Propose a new task. Changes are staged and must be committed to take effect."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Task description")),
		mcp.WithString("project_id", mcp.Description("Project ID"), mcp.Required()),
		mcp.WithString("assignee_id", mcp.Description("Assignee member ID"), mcp.Required()),
		mcp.WithString("due_date", mcp.Description("Due date (YYYY-MM-DD)"), mcp.Required()),
		mcp.WithString("status", mcp.Description("Status (todo|in-progress|completed|blocked)"), mcp.DefaultString(string(models.TaskStatusTodo))),
		mcp.WithString("priority", mcp.Description("Priority (low|medium|high)"), mcp.DefaultString(string(models.PriorityMedium))),
		mcp.WithString("id", mcp.Description("Task ID (generated when empty)")),
		mcp.WithString("session_id", mcp.Description("Session ID for staging changes (defaults to 'default').")),
	), createTaskHandler(st))

	// Staging Management
	s.AddTool(mcp.NewTool("commit_staged_changes",
		mcp.WithDescription("Commit all staged changes for a session. This applies all proposed members, projects and tasks at once."),
		mcp.WithString("session_id", mcp.Description("Session ID (defaults to 'default').")),
	), commitStagedChangesHandler(st))

	s.AddTool(mcp.NewTool("list_staged_changes",
		mcp.WithDescription("List all staged changes for a session. Use this to review a proposed plan before committing."),
		mcp.WithString("session_id", mcp.Description("Session ID (defaults to 'default').")),
	), listStagedChangesHandler(st))

	// Direct updates
	s.AddTool(mcp.NewTool("update_task_status",
		mcp.WithDescription("Move a task to any status."),
		mcp.WithString("task_id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status (todo|in-progress|completed|blocked)"), mcp.Required()),
	), updateTaskStatusHandler(st))

	s.AddTool(mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a task."),
		mcp.WithString("task_id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("author_id", mcp.Description("Author member ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("Comment text"), mcp.Required()),
	), addCommentHandler(st))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func listMembersHandler(st *store.Store) server.ToolHandlerFunc {
	q := query.New(st)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := query.MemberCriteria{
			SearchText: mcp.ParseString(request, "search_text", ""),
			Role:       models.Role(mcp.ParseString(request, "role", "")),
		}
		members := slices.Collect(q.FilterMembers(c))
		if members == nil {
			members = []*models.Member{}
		}
		return jsonResult(map[string]any{"members": members})
	}
}

func taskCriteria(request mcp.CallToolRequest) query.TaskCriteria {
	return query.TaskCriteria{
		SearchText: mcp.ParseString(request, "search_text", ""),
		Status:     models.TaskStatus(mcp.ParseString(request, "status", "")),
		Priority:   models.Priority(mcp.ParseString(request, "priority", "")),
		ProjectID:  mcp.ParseString(request, "project_id", ""),
		AssigneeID: mcp.ParseString(request, "assignee_id", ""),
	}
}

func filterTasksHandler(st *store.Store, now Clock) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap := st.Snapshot()
		r := resolve.New(snap)
		views := []taskView{}
		for t := range query.New(snap).FilterTasks(taskCriteria(request)) {
			views = append(views, newTaskView(t, r, now()))
		}
		return jsonResult(map[string]any{"tasks": views})
	}
}

func filterProjectsHandler(st *store.Store, now Clock) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := query.ProjectCriteria{
			SearchText: mcp.ParseString(request, "search_text", ""),
			Status:     models.ProjectStatus(mcp.ParseString(request, "status", "")),
			Priority:   models.Priority(mcp.ParseString(request, "priority", "")),
		}
		snap := st.Snapshot()
		views := []projectView{}
		for p := range query.New(snap).FilterProjects(c) {
			views = append(views, newProjectView(p, snap, now()))
		}
		return jsonResult(map[string]any{"projects": views})
	}
}

func taskBoardHandler(st *store.Store, now Clock) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := taskCriteria(request)
		c.Status = ""
		snap := st.Snapshot()
		board, err := query.GroupTasksByStatus(query.New(snap).FilterTasks(c))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		r := resolve.New(snap)
		columns := make(map[models.TaskStatus][]taskView, len(board))
		for status, tasks := range board {
			col := make([]taskView, 0, len(tasks))
			for _, t := range tasks {
				col = append(col, newTaskView(t, r, now()))
			}
			columns[status] = col
		}
		return jsonResult(map[string]any{"columns": columns})
	}
}

func statusCountsHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap := st.Snapshot()
		return jsonResult(map[string]any{
			"task_status":      stats.TaskStatusCounts(snap.Tasks),
			"task_priority":    stats.TaskPriorityCounts(snap.Tasks),
			"project_status":   stats.ProjectStatusCounts(snap.Projects),
			"project_priority": stats.ProjectPriorityCounts(snap.Projects),
			"member_role":      stats.RoleCounts(snap.Members),
		})
	}
}

func memberStatsHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "member_id", "")

		snap := st.Snapshot()
		m, ok := snap.Member(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Member with id '%s' not found", id)), nil
		}

		projects := []string{}
		for _, p := range resolve.New(snap).ProjectsForMember(id) {
			projects = append(projects, p.Title)
		}
		ms := stats.ForMember(id, snap.Tasks, snap.Projects)
		return jsonResult(map[string]any{
			"member":   m,
			"stats":    memberStatsView{MemberStats: ms, CompletionPercent: stats.Percent(ms.CompletionRate)},
			"projects": projects,
		})
	}
}

func teamStatsHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		team := stats.BuildTeam(st.Snapshot())
		return jsonResult(teamView{Team: team, CompletionPercent: stats.Percent(team.CompletionRate)})
	}
}

func projectDetailHandler(st *store.Store, now Clock) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "project_id", "")

		snap := st.Snapshot()
		p, ok := snap.Project(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Project with id '%s' not found", id)), nil
		}

		r := resolve.New(snap)
		members, missing := r.Members(p)
		tasks := r.TasksForProject(id)
		views := make([]taskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, newTaskView(t, r, now()))
		}

		return jsonResult(map[string]any{
			"summary":         stats.SummarizeProject(p, tasks, now()),
			"members":         members,
			"missing_members": missing,
			"tasks":           views,
		})
	}
}

func dashboardHandler(st *store.Store, now Clock) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		d := stats.BuildDashboard(st.Snapshot(), now())
		return jsonResult(dashboardView{Dashboard: d, CompletionPercent: stats.Percent(d.CompletionRate)})
	}
}

func createMemberHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")
		m := &models.Member{
			ID:     mcp.ParseString(request, "id", ""),
			Name:   mcp.ParseString(request, "name", ""),
			Email:  mcp.ParseString(request, "email", ""),
			Avatar: mcp.ParseString(request, "avatar", ""),
			Role:   models.Role(mcp.ParseString(request, "role", string(models.RoleMember))),
		}
		if err := m.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		st.Staging.AddMember(sessionID, m)
		return mcp.NewToolResultText(fmt.Sprintf("Member '%s' staged for session '%s'. Propose another or call 'commit_staged_changes' to apply.", m.Name, sessionID)), nil
	}
}

func createProjectHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")

		start, err := models.ParseDate(mcp.ParseString(request, "start_date", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("start_date: %v", err)), nil
		}
		end, err := models.ParseDate(mcp.ParseString(request, "end_date", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("end_date: %v", err)), nil
		}

		p := &models.Project{
			ID:          mcp.ParseString(request, "id", ""),
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
			StartDate:   start,
			EndDate:     end,
			Status:      models.ProjectStatus(mcp.ParseString(request, "status", string(models.ProjectStatusPlanning))),
			Priority:    models.Priority(mcp.ParseString(request, "priority", string(models.PriorityMedium))),
			Progress:    mcp.ParseInt(request, "progress", 0),
			MemberIDs:   request.GetStringSlice("member_ids", nil),
		}
		if err := p.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		st.Staging.AddProject(sessionID, p)
		return mcp.NewToolResultText(fmt.Sprintf("Project '%s' staged for session '%s'. Propose another or call 'commit_staged_changes' to apply.", p.Title, sessionID)), nil
	}
}

func createTaskHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")

		due, err := models.ParseDate(mcp.ParseString(request, "due_date", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("due_date: %v", err)), nil
		}

		t := &models.Task{
			ID:          mcp.ParseString(request, "id", ""),
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
			Status:      models.TaskStatus(mcp.ParseString(request, "status", string(models.TaskStatusTodo))),
			Priority:    models.Priority(mcp.ParseString(request, "priority", string(models.PriorityMedium))),
			AssigneeID:  mcp.ParseString(request, "assignee_id", ""),
			ProjectID:   mcp.ParseString(request, "project_id", ""),
			DueDate:     due,
		}
		if err := t.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		st.Staging.AddTask(sessionID, t)
		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' staged for session '%s'. Propose another or call 'commit_staged_changes' to apply.", t.Title, sessionID)), nil
	}
}

func commitStagedChangesHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")
		if err := st.CommitBatch(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Staged changes for session '%s' committed successfully", sessionID)), nil
	}
}

func listStagedChangesHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")
		return jsonResult(st.Staging.Peek(sessionID))
	}
}

func updateTaskStatusHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "task_id", "")
		status := models.TaskStatus(mcp.ParseString(request, "status", ""))

		if err := st.SetTaskStatus(ctx, id, status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' moved to %s", id, status.Meta().Label)), nil
	}
}

func addCommentHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		taskID := mcp.ParseString(request, "task_id", "")
		c := &models.Comment{
			AuthorID: mcp.ParseString(request, "author_id", ""),
			Content:  mcp.ParseString(request, "content", ""),
		}

		if err := st.AddComment(ctx, taskID, c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Comment '%s' added to task '%s'", c.ID, taskID)), nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/ldi/taskdeck/internal/config"
	"github.com/ldi/taskdeck/internal/logging"
	"github.com/ldi/taskdeck/internal/mcp"
	"github.com/ldi/taskdeck/internal/query"
	"github.com/ldi/taskdeck/internal/resolve"
	"github.com/ldi/taskdeck/internal/seed"
	"github.com/ldi/taskdeck/internal/stats"
	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/internal/ui"
	"github.com/ldi/taskdeck/internal/ui/components"
	"github.com/ldi/taskdeck/pkg/models"
)

var runMenu = ui.RunMenu

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every command once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
	now    func() time.Time
	store  *store.Store
}

const usageHeader = `Usage: taskdeck [flags] <command> [args]

Running ` + "`taskdeck`" + ` with no command opens the interactive menu.

Commands:
  init [dir]        Create the .taskdeck directory, config and snapshot
  mcp               Serve the MCP tools on stdio
  status            Show the dashboard overview
  board             Show tasks grouped by status
  list-projects     List projects
  list-tasks        List tasks
  list-members      List team members
  team              Show per-member statistics
  project <id>      Show one project with its team and tasks
  export [path]     Write the snapshot file

Flags:
`

func execute(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageHeader)
		fs.PrintDefaults()
	}
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	logger, closer := logging.New(cfg.LogOptions())
	defer closer.Close()
	if cfg.ConfigFile != "" {
		logger.Debug("config loaded", "file", cfg.ConfigFile)
	}

	var command string
	var cmdArgs []string
	if fs.NArg() == 0 {
		selected, err := runMenu()
		if err != nil {
			return fmt.Errorf("failed to run menu: %w", err)
		}
		if selected == "" {
			return nil
		}
		command = selected
	} else {
		command = fs.Arg(0)
		cmdArgs = fs.Args()[1:]
	}

	a := &app{cfg: cfg, logger: logger, out: out, now: cfg.Clock()}

	if command == "init" {
		return a.runInit(cmdArgs)
	}

	ctx := context.Background()
	if err := a.open(ctx); err != nil {
		return err
	}

	switch command {
	case "mcp":
		return a.runMCP(cmdArgs)
	case "list-projects":
		return a.runListProjects(cmdArgs)
	case "list-tasks":
		return a.runListTasks(cmdArgs)
	case "list-members":
		return a.runListMembers(cmdArgs)
	case "board":
		return a.runBoard(cmdArgs)
	case "team":
		return a.runTeam(cmdArgs)
	case "status":
		return a.runStatus(cmdArgs)
	case "project":
		return a.runProject(cmdArgs)
	case "export":
		return a.runExport(ctx, cmdArgs)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// open builds the store from the snapshot file, or from the demo dataset
// when there is no snapshot and seeding is enabled.
func (a *app) open(ctx context.Context) error {
	a.store = store.New(
		store.WithLogger(a.logger),
		store.WithStrictReferences(a.cfg.StrictReferences),
		store.WithClock(a.now),
	)

	_, err := os.Stat(a.cfg.SnapshotPath)
	switch {
	case err == nil:
		if err := a.store.ImportSnapshot(ctx, a.cfg.SnapshotPath); err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		if a.cfg.Seed {
			if err := seed.Load(ctx, a.store); err != nil {
				return err
			}
			a.logger.Info("no snapshot found, loaded demo data", "path", a.cfg.SnapshotPath)
		}
	default:
		return fmt.Errorf("failed to stat snapshot: %w", err)
	}
	return nil
}

func (a *app) runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	dataDir := filepath.Join(targetDir, config.DefaultDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", config.DefaultDir, err)
	}
	fmt.Fprintf(a.out, "✓ Created %s/ directory\n", config.DefaultDir)

	gitignorePath := filepath.Join(dataDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*.log\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Created %s/.gitignore\n", config.DefaultDir)

	if a.cfg.SnapshotPath == filepath.Clean(config.DefaultSnapshotPath) {
		a.cfg.SnapshotPath = filepath.Join(targetDir, config.DefaultSnapshotPath)
	}

	configPath := filepath.Join(targetDir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "✓ Wrote default config to %s\n", configPath)
	}

	ctx := context.Background()
	if err := a.open(ctx); err != nil {
		return err
	}
	if _, err := os.Stat(a.cfg.SnapshotPath); err == nil {
		fmt.Fprintf(a.out, "✓ Imported snapshot from %s\n", a.cfg.SnapshotPath)
	} else {
		if err := a.store.ExportSnapshot(ctx, a.cfg.SnapshotPath); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "✓ Wrote snapshot to %s\n", a.cfg.SnapshotPath)
	}

	fmt.Fprintln(a.out, "✓ Taskdeck initialized successfully")
	return nil
}

func writeConfig(path string, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (a *app) runMCP(args []string) error {
	a.store.EnableAutoSnapshot(a.cfg.SnapshotPath)
	a.logger.Info("serving MCP on stdio", "snapshot", a.cfg.SnapshotPath)
	return mcp.Serve(mcp.NewServer(a.store, a.now))
}

func (a *app) runListProjects(args []string) error {
	projectFlags := flag.NewFlagSet("list-projects", flag.ContinueOnError)
	status := projectFlags.String("status", "", "Filter by status (planning, in-progress, completed, on-hold)")
	priority := projectFlags.String("priority", "", "Filter by priority (low, medium, high)")
	search := projectFlags.String("search", "", "Filter by text in title or description")
	if err := projectFlags.Parse(args); err != nil {
		return err
	}

	c := query.ProjectCriteria{
		SearchText: *search,
		Status:     models.ProjectStatus(*status),
		Priority:   models.Priority(*priority),
	}

	snap := a.store.Snapshot()
	now := a.now()
	fmt.Fprintf(a.out, "%-4s %-30s %-12s %-8s %-9s %-6s %s\n", "ID", "TITLE", "STATUS", "PRIORITY", "PROGRESS", "TASKS", "DEADLINE")
	fmt.Fprintln(a.out, "------------------------------------------------------------------------------------------")
	for p := range query.New(snap).FilterProjects(c) {
		fmt.Fprintf(a.out, "%-4s %-30s %-12s %-8s %8d%% %-6d %s\n",
			p.ID, truncate(p.Title, 30), p.Status.Meta().Label, p.Priority.Meta().Label,
			p.Progress, len(snap.TasksForProject(p.ID)), deadline(p.EndDate, now))
	}
	return nil
}

func (a *app) runListTasks(args []string) error {
	taskFlags := flag.NewFlagSet("list-tasks", flag.ContinueOnError)
	status := taskFlags.String("status", "", "Filter by status (todo, in-progress, completed, blocked)")
	priority := taskFlags.String("priority", "", "Filter by priority (low, medium, high)")
	project := taskFlags.String("project", "", "Filter by project ID")
	assignee := taskFlags.String("assignee", "", "Filter by assignee member ID")
	search := taskFlags.String("search", "", "Filter by text in title or description")
	if err := taskFlags.Parse(args); err != nil {
		return err
	}

	c := query.TaskCriteria{
		SearchText: *search,
		Status:     models.TaskStatus(*status),
		Priority:   models.Priority(*priority),
		ProjectID:  *project,
		AssigneeID: *assignee,
	}

	snap := a.store.Snapshot()
	r := resolve.New(snap)
	now := a.now()
	fmt.Fprintf(a.out, "%-4s %-36s %-12s %-8s %-16s %-10s\n", "ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "DUE")
	fmt.Fprintln(a.out, "--------------------------------------------------------------------------------------------")
	for t := range query.New(snap).FilterTasks(c) {
		assigneeName := "-"
		if m, ok := r.Assignee(t); ok {
			assigneeName = m.Name
		}
		due := t.DueDate.String()
		switch {
		case stats.IsDueToday(t.DueDate.Time, now):
			due += " (today)"
		case stats.TaskOverdue(t, now):
			due += " (overdue)"
		}
		fmt.Fprintf(a.out, "%-4s %-36s %-12s %-8s %-16s %s\n",
			t.ID, truncate(t.Title, 36), t.Status.Meta().Label, t.Priority.Meta().Label, truncate(assigneeName, 16), due)
	}
	return nil
}

func (a *app) runListMembers(args []string) error {
	memberFlags := flag.NewFlagSet("list-members", flag.ContinueOnError)
	role := memberFlags.String("role", "", "Filter by role (admin, manager, member)")
	search := memberFlags.String("search", "", "Filter by text in name or email")
	if err := memberFlags.Parse(args); err != nil {
		return err
	}

	c := query.MemberCriteria{SearchText: *search, Role: models.Role(*role)}

	fmt.Fprintf(a.out, "%-4s %-20s %-28s %s\n", "ID", "NAME", "EMAIL", "ROLE")
	fmt.Fprintln(a.out, "----------------------------------------------------------------------")
	for m := range query.New(a.store).FilterMembers(c) {
		fmt.Fprintf(a.out, "%-4s %-20s %-28s %s\n", m.ID, truncate(m.Name, 20), truncate(m.Email, 28), components.Badge(m.Role.Meta()))
	}
	return nil
}

func (a *app) runBoard(args []string) error {
	boardFlags := flag.NewFlagSet("board", flag.ContinueOnError)
	project := boardFlags.String("project", "", "Filter by project ID")
	assignee := boardFlags.String("assignee", "", "Filter by assignee member ID")
	priority := boardFlags.String("priority", "", "Filter by priority (low, medium, high)")
	search := boardFlags.String("search", "", "Filter by text in title or description")
	width := boardFlags.Int("width", 120, "Total board width")
	if err := boardFlags.Parse(args); err != nil {
		return err
	}

	snap := a.store.Snapshot()
	grouped, err := query.GroupTasksByStatus(query.New(snap).FilterTasks(query.TaskCriteria{
		SearchText: *search,
		Priority:   models.Priority(*priority),
		ProjectID:  *project,
		AssigneeID: *assignee,
	}))
	if err != nil {
		return err
	}

	r := resolve.New(snap)
	now := a.now()
	board := components.NewBoard(*width)
	if p, ok := snap.Project(*project); ok {
		board.Title = p.Title
	}
	for _, status := range models.TaskStatuses {
		for _, t := range grouped[status] {
			card := components.Card{
				Title:    t.Title,
				Due:      t.DueDate.String(),
				Priority: t.Priority,
				Overdue:  stats.TaskOverdue(t, now),
			}
			if m, ok := r.Assignee(t); ok {
				card.Assignee = m.Name
			}
			board.Add(status, card)
		}
	}

	fmt.Fprintln(a.out, board.View())
	return nil
}

func (a *app) runTeam(args []string) error {
	team := stats.BuildTeam(a.store.Snapshot())

	fmt.Fprintf(a.out, "%-20s %-14s %6s %6s %6s %9s %5s\n", "NAME", "ROLE", "TASKS", "DONE", "ACTIVE", "PROJECTS", "RATE")
	fmt.Fprintln(a.out, "----------------------------------------------------------------------")
	for _, mr := range team.Members {
		st := mr.Stats
		fmt.Fprintf(a.out, "%-20s %-14s %6d %6d %6d %9d %4d%%\n",
			truncate(mr.Member.Name, 20), mr.Member.Role.Meta().Label,
			st.TotalTasks, st.CompletedTasks, st.ActiveTasks, st.ProjectCount, stats.Percent(st.CompletionRate))
	}

	fmt.Fprintln(a.out, "\nTeam:")
	for _, role := range models.Roles {
		fmt.Fprintf(a.out, "  %-14s %d\n", role.Meta().Label+":", team.Roles[role])
	}
	fmt.Fprintf(a.out, "  Completed tasks: %d\n", team.CompletedTasks)
	fmt.Fprintf(a.out, "  Completion rate: %d%%\n", stats.Percent(team.CompletionRate))
	fmt.Fprintf(a.out, "  Active projects: %d\n", team.ActiveProjects)
	return nil
}

func (a *app) runStatus(args []string) error {
	snap := a.store.Snapshot()
	now := a.now()
	d := stats.BuildDashboard(snap, now)

	fmt.Fprintln(a.out, "Taskdeck Status")
	fmt.Fprintln(a.out, "===============")
	fmt.Fprintf(a.out, "Projects:        %d (%d in progress, %d completed)\n", d.TotalProjects, d.InProgressProjects, d.CompletedProjects)
	fmt.Fprintf(a.out, "Tasks:           %d (%d completed, %d overdue)\n", d.TotalTasks, d.CompletedTasks, d.OverdueTasks)
	fmt.Fprintf(a.out, "Completion rate: %d%%\n", stats.Percent(d.CompletionRate))

	counts := stats.TaskStatusCounts(snap.Tasks)
	fmt.Fprintln(a.out, "\nTask Breakdown:")
	for _, s := range models.TaskStatuses {
		fmt.Fprintf(a.out, "  %-12s %d\n", s.Meta().Label+":", counts[s])
	}

	if len(d.RecentProjects) > 0 {
		fmt.Fprintln(a.out, "\nRecent Projects:")
		for _, p := range d.RecentProjects {
			fmt.Fprintf(a.out, "  - %s (%s, %d%%)\n", p.Title, p.Status.Meta().Label, p.Progress)
		}
	}

	if len(d.UpcomingTasks) > 0 {
		fmt.Fprintln(a.out, "\nUpcoming Tasks:")
		for _, t := range d.UpcomingTasks {
			note := ""
			switch {
			case stats.IsDueToday(t.DueDate.Time, now):
				note = " today"
			case stats.TaskOverdue(t, now):
				note = " overdue"
			}
			fmt.Fprintf(a.out, "  - %s (due %s%s)\n", t.Title, t.DueDate, note)
		}
	}
	return nil
}

func (a *app) runProject(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: taskdeck project <project-id>")
	}
	id := args[0]

	snap := a.store.Snapshot()
	p, ok := snap.Project(id)
	if !ok {
		return fmt.Errorf("project with id '%s' not found", id)
	}

	r := resolve.New(snap)
	now := a.now()
	tasks := r.TasksForProject(id)
	sum := stats.SummarizeProject(p, tasks, now)

	fmt.Fprintln(a.out, p.Title)
	fmt.Fprintln(a.out, p.Description)
	fmt.Fprintf(a.out, "\nStatus:   %s\n", p.Status.Meta().Label)
	fmt.Fprintf(a.out, "Priority: %s\n", p.Priority.Meta().Label)
	fmt.Fprintf(a.out, "Progress: %d%%\n", p.Progress)
	fmt.Fprintf(a.out, "Period:   %s to %s (%s)\n", p.StartDate, p.EndDate, deadline(p.EndDate, now))
	fmt.Fprintf(a.out, "Tasks:    %d total, %d completed, %d overdue\n", sum.TotalTasks, sum.CompletedTasks, sum.OverdueTasks)

	members, missing := r.Members(p)
	fmt.Fprintln(a.out, "\nTeam:")
	for _, m := range members {
		fmt.Fprintf(a.out, "  - %s (%s)\n", m.Name, m.Role.Meta().Label)
	}
	for _, id := range missing {
		fmt.Fprintf(a.out, "  - unknown member %s\n", id)
	}

	fmt.Fprintln(a.out, "\nTasks:")
	for _, t := range tasks {
		assigneeName := "unassigned"
		if m, ok := r.Assignee(t); ok {
			assigneeName = m.Name
		}
		fmt.Fprintf(a.out, "  [%s] %s (%s, due %s)\n", t.Status.Meta().Label, t.Title, assigneeName, t.DueDate)
		for _, c := range t.Comments {
			author := c.AuthorID
			if m, ok := r.Author(c); ok {
				author = m.Name
			}
			fmt.Fprintf(a.out, "      %s: %s\n", author, c.Content)
		}
	}
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	path := a.cfg.SnapshotPath
	if len(args) > 0 {
		path = args[0]
	}
	if err := a.store.ExportSnapshot(ctx, path); err != nil {
		return err
	}
	snap := a.store.Snapshot()
	fmt.Fprintf(a.out, "✓ Exported %d members, %d projects, %d tasks to %s\n",
		len(snap.Members), len(snap.Projects), len(snap.Tasks), path)
	return nil
}

func deadline(end models.Date, now time.Time) string {
	days := stats.DaysUntil(end.Time, now)
	switch {
	case days < 0:
		return fmt.Sprintf("%d days late", -days)
	case days == 0:
		return "due today"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}


package models

// Meta is the display metadata shared by every view. Color is an ANSI
// 256-color code.
type Meta struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

const (
	colorGray   = "245"
	colorBlue   = "33"
	colorYellow = "220"
	colorGreen  = "42"
	colorRed    = "196"
)

var taskStatusMeta = map[TaskStatus]Meta{
	TaskStatusTodo:       {Label: "To Do", Color: colorGray},
	TaskStatusInProgress: {Label: "In Progress", Color: colorBlue},
	TaskStatusCompleted:  {Label: "Completed", Color: colorGreen},
	TaskStatusBlocked:    {Label: "Blocked", Color: colorRed},
}

var projectStatusMeta = map[ProjectStatus]Meta{
	ProjectStatusPlanning:   {Label: "Planning", Color: colorBlue},
	ProjectStatusInProgress: {Label: "In Progress", Color: colorYellow},
	ProjectStatusCompleted:  {Label: "Completed", Color: colorGreen},
	ProjectStatusOnHold:     {Label: "On Hold", Color: colorGray},
}

var priorityMeta = map[Priority]Meta{
	PriorityLow:    {Label: "Low", Color: colorBlue},
	PriorityMedium: {Label: "Medium", Color: colorYellow},
	PriorityHigh:   {Label: "High", Color: colorRed},
}

var roleMeta = map[Role]Meta{
	RoleAdmin:   {Label: "Administrator", Color: colorRed},
	RoleManager: {Label: "Manager", Color: colorBlue},
	RoleMember:  {Label: "Member", Color: colorGreen},
}

// unknownMeta is returned for values outside the closed set so views never
// render an empty badge.
func unknownMeta(v string) Meta {
	return Meta{Label: v, Color: colorGray}
}

func (s TaskStatus) Meta() Meta {
	if m, ok := taskStatusMeta[s]; ok {
		return m
	}
	return unknownMeta(string(s))
}

func (s ProjectStatus) Meta() Meta {
	if m, ok := projectStatusMeta[s]; ok {
		return m
	}
	return unknownMeta(string(s))
}

func (p Priority) Meta() Meta {
	if m, ok := priorityMeta[p]; ok {
		return m
	}
	return unknownMeta(string(p))
}

func (r Role) Meta() Meta {
	if m, ok := roleMeta[r]; ok {
		return m
	}
	return unknownMeta(string(r))
}

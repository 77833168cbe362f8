package types

// TaskType identifies which external document system an automation task targets.
type TaskType string

// Automation task types.
const (
	TaskDocs     TaskType = "docs"
	TaskSheets   TaskType = "sheets"
	TaskSlides   TaskType = "slides"
	TaskCalendar TaskType = "calendar"
	TaskGmail    TaskType = "gmail"
)

// TaskStatus is the lifecycle state of an automation task.
type TaskStatus string

// Automation task statuses.
const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskError     TaskStatus = "error"
)

// AutomationTask records one completed workspace operation in a result's
// append-only automation history.
type AutomationTask struct {
	ID     string     `json:"id"`
	Type   TaskType   `json:"type"`
	Status TaskStatus `json:"status"`
	Label  string     `json:"label"`
}

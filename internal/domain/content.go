package domain

// FAQ is one question/answer pair served by the assistant.
type FAQ struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Task is a scheduled job the assistant knows about. Requirement and
// StartDate are legacy keys still returned by older records.
type Task struct {
	Name          string `json:"name"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	Address       string `json:"address,omitempty"`
	StartDatetime string `json:"start_datetime,omitempty"`
	Request       string `json:"request,omitempty"`
	Requirement   string `json:"requirement,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// RequestText returns the task request, falling back to the legacy key.
func (t *Task) RequestText() string {
	if t.Request != "" {
		return t.Request
	}
	return t.Requirement
}

// StartsAt returns the start time, falling back to the legacy key.
func (t *Task) StartsAt() string {
	if t.StartDatetime != "" {
		return t.StartDatetime
	}
	return t.StartDate
}

// TaskPatch holds the editable task fields. Nil fields are left unchanged.
type TaskPatch struct {
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Address       *string `json:"address,omitempty"`
	StartDatetime *string `json:"start_datetime,omitempty"`
	Request       *string `json:"request,omitempty"`
}

type Prompt struct {
	ID      string
	Content string
}

// ExtTool describes an external HTTP tool the assistant may call.
type ExtTool struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	URL         string            `json:"url" yaml:"url"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string            `json:"body,omitempty" yaml:"body,omitempty"`
	Parameters  any               `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Timeout     int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type ExtToolsConfig struct {
	ExtTools []ExtTool `json:"ext_tools" yaml:"ext_tools"`
}

// FuncConfig is the function-calling configuration. Tools are passed through
// untouched since their schema belongs to the backend.
type FuncConfig struct {
	Tools        []any  `json:"tools" yaml:"tools"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// Package structs defines the domain types shared across the data,
// service and handler layers.
package structs

import "time"

// User is a registered account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username,omitempty"`
	FullName     string     `json:"full_name,omitempty"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Session is a refresh-token session. Each login creates one; refresh
// rotates it.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// PasswordResetToken is a single-use credential for the reset flow.
type PasswordResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the credential pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Task status values.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task kind values.
type TaskType string

const (
	TaskStudy    TaskType = "study"
	TaskExercise TaskType = "exercise"
	TaskQuiz     TaskType = "quiz"
	TaskReview   TaskType = "review"
	TaskReading  TaskType = "reading"
	TaskPractice TaskType = "practice"
)

// Valid reports whether the type is a known value.
func (t TaskType) Valid() bool {
	switch t {
	case TaskStudy, TaskExercise, TaskQuiz, TaskReview, TaskReading, TaskPractice:
		return true
	}
	return false
}

// Task priority values.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a study task. ID is a monotonically assigned integer and
// doubles as the pagination sort key.
type Task struct {
	ID                int64        `json:"id"`
	UserID            string       `json:"user_id"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	Type              TaskType     `json:"task_type"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	ChapterID         string       `json:"chapter_id,omitempty"`
	Topic             string       `json:"topic,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	DueDate           *time.Time   `json:"due_date,omitempty"`
	EstimatedDuration int          `json:"estimated_duration,omitempty"` // minutes
	AIGenerated       bool         `json:"is_ai_generated"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
	CompletionNotes   string       `json:"completion_notes,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Product is a catalog item used by the pagination lessons. IDs are
// monotonically assigned and never reused.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	InStock   bool      `json:"in_stock"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is an ingested document fragment with its embedding vector,
// retrieved by cosine similarity during chat.
type Chunk struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Position  int       `json:"position"`
	Content   string    `json:"content"`
	Embedding []float64 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskProgress summarizes a user's learning progress.
type TaskProgress struct {
	TotalTasks           int            `json:"total_tasks"`
	CompletedTasks       int            `json:"completed_tasks"`
	CompletionPercentage float64        `json:"completion_percentage"`
	TasksByType          map[string]int `json:"tasks_by_type"`
	TasksByStatus        map[string]int `json:"tasks_by_status"`
	RecentCompletions    []*Task        `json:"recent_completions"`
	UpcomingTasks        []*Task        `json:"upcoming_tasks"`
}

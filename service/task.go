package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/learnhub/learnhub/ai"
	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/structs"
)

// CreateTaskRequest is the task creation payload.
type CreateTaskRequest struct {
	Title             string     `json:"title" binding:"required"`
	Description       string     `json:"description"`
	Type              string     `json:"task_type" binding:"required"`
	Priority          string     `json:"priority"`
	ChapterID         string     `json:"chapter_id"`
	Topic             string     `json:"topic"`
	Tags              []string   `json:"tags"`
	DueDate           *time.Time `json:"due_date"`
	EstimatedDuration int        `json:"estimated_duration"`
}

// UpdateTaskRequest carries partial task changes. Nil fields are left
// untouched.
type UpdateTaskRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Type              *string    `json:"task_type"`
	Status            *string    `json:"status"`
	Priority          *string    `json:"priority"`
	Topic             *string    `json:"topic"`
	Tags              []string   `json:"tags"`
	DueDate           *time.Time `json:"due_date"`
	EstimatedDuration *int       `json:"estimated_duration"`
	CompletionNotes   *string    `json:"completion_notes"`
}

// ListTasksRequest combines filters with pagination parameters.
type ListTasksRequest struct {
	Filter repository.TaskFilter
	Page   paging.Params
}

// GenerateTasksRequest asks the model for a study plan.
type GenerateTasksRequest struct {
	Topic     string `json:"topic" binding:"required"`
	ChapterID string `json:"chapter_id"`
	Count     int    `json:"count"`
	Level     string `json:"level"`
}

// ErrInvalidTaskField flags an unknown enum value in a task payload.
var ErrInvalidTaskField = errors.New("invalid task field value")

// TaskService implements study task management.
type TaskService struct {
	aiCfg *config.AI
	tasks repository.TaskRepository
	ai    *ai.Client
	log   *logger.Logger
}

// NewTaskService creates the task service.
func NewTaskService(aiCfg *config.AI, tasks repository.TaskRepository, aiClient *ai.Client, log *logger.Logger) *TaskService {
	return &TaskService{aiCfg: aiCfg, tasks: tasks, ai: aiClient, log: log}
}

// Create adds a task for the user.
func (s *TaskService) Create(ctx context.Context, userID string, req *CreateTaskRequest) (*structs.Task, error) {
	taskType := structs.TaskType(req.Type)
	if !taskType.Valid() {
		return nil, fmt.Errorf("%w: task_type %q", ErrInvalidTaskField, req.Type)
	}
	priority := structs.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = structs.PriorityMedium
	} else if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidTaskField, req.Priority)
	}

	now := time.Now().UTC()
	task := &structs.Task{
		UserID:            userID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Type:              taskType,
		Status:            structs.TaskPending,
		Priority:          priority,
		ChapterID:         req.ChapterID,
		Topic:             req.Topic,
		Tags:              req.Tags,
		DueDate:           req.DueDate,
		EstimatedDuration: req.EstimatedDuration,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns a single task owned by the user.
func (s *TaskService) Get(ctx context.Context, userID string, id int64) (*structs.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// List returns one page of the user's tasks ordered by id ascending.
func (s *TaskService) List(ctx context.Context, userID string, req *ListTasksRequest) (*paging.Result[*structs.Task], error) {
	return paging.Paginate(ctx, req.Page,
		func(t *structs.Task) paging.Position {
			return paging.Position{Key: t.ID}
		},
		func(ctx context.Context, after *paging.Position, limit int) ([]*structs.Task, error) {
			return s.tasks.ListAfter(ctx, userID, req.Filter, after, limit)
		},
	)
}

// Update applies partial changes. Moving into completed status stamps
// completed_at; moving out clears it.
func (s *TaskService) Update(ctx context.Context, userID string, id int64, req *UpdateTaskRequest) (*structs.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Type != nil {
		taskType := structs.TaskType(*req.Type)
		if !taskType.Valid() {
			return nil, fmt.Errorf("%w: task_type %q", ErrInvalidTaskField, *req.Type)
		}
		task.Type = taskType
	}
	if req.Status != nil {
		status := structs.TaskStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidTaskField, *req.Status)
		}
		if status == structs.TaskCompleted && task.Status != structs.TaskCompleted {
			now := time.Now().UTC()
			task.CompletedAt = &now
		} else if status != structs.TaskCompleted {
			task.CompletedAt = nil
		}
		task.Status = status
	}
	if req.Priority != nil {
		priority := structs.TaskPriority(*req.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: priority %q", ErrInvalidTaskField, *req.Priority)
		}
		task.Priority = priority
	}
	if req.Topic != nil {
		task.Topic = *req.Topic
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedDuration != nil {
		task.EstimatedDuration = *req.EstimatedDuration
	}
	if req.CompletionNotes != nil {
		task.CompletionNotes = *req.CompletionNotes
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// Delete removes a task owned by the user.
func (s *TaskService) Delete(ctx context.Context, userID string, id int64) error {
	err := s.tasks.Delete(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Progress summarizes the user's tasks.
func (s *TaskService) Progress(ctx context.Context, userID string) (*structs.TaskProgress, error) {
	byStatus, err := s.tasks.CountByField(ctx, userID, "status")
	if err != nil {
		return nil, err
	}
	byType, err := s.tasks.CountByField(ctx, userID, "task_type")
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	completed := byStatus[string(structs.TaskCompleted)]

	percentage := 0.0
	if total > 0 {
		percentage = float64(completed) / float64(total) * 100
	}

	recent, err := s.tasks.RecentCompleted(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.tasks.Upcoming(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	return &structs.TaskProgress{
		TotalTasks:           total,
		CompletedTasks:       completed,
		CompletionPercentage: percentage,
		TasksByType:          byType,
		TasksByStatus:        byStatus,
		RecentCompletions:    recent,
		UpcomingTasks:        upcoming,
	}, nil
}

const generatePromptTemplate = `Generate %d study tasks for the topic "%s" at %s level.
Respond with a JSON array only, no prose. Each element must have these keys:
"title" (string), "description" (string), "task_type" (one of study, exercise, quiz, review, reading, practice),
"priority" (one of low, medium, high), "estimated_duration" (minutes, integer).`

type generatedTask struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Type              string `json:"task_type"`
	Priority          string `json:"priority"`
	EstimatedDuration int    `json:"estimated_duration"`
}

// Generate asks the model for a study plan and stores the resulting
// tasks. When the provider is unavailable or returns something
// unusable, a default plan for the topic is stored instead.
func (s *TaskService) Generate(ctx context.Context, userID string, req *GenerateTasksRequest) ([]*structs.Task, error) {
	count := req.Count
	if count <= 0 || count > 10 {
		count = 5
	}
	level := req.Level
	if level == "" {
		level = "beginner"
	}

	drafts := s.generateWithModel(ctx, req.Topic, level, count)
	if len(drafts) == 0 {
		drafts = defaultPlan(req.Topic, count)
	}

	now := time.Now().UTC()
	var tasks []*structs.Task
	for _, draft := range drafts {
		taskType := structs.TaskType(draft.Type)
		if !taskType.Valid() {
			taskType = structs.TaskStudy
		}
		priority := structs.TaskPriority(draft.Priority)
		if !priority.Valid() {
			priority = structs.PriorityMedium
		}

		task := &structs.Task{
			UserID:            userID,
			Title:             draft.Title,
			Description:       draft.Description,
			Type:              taskType,
			Status:            structs.TaskPending,
			Priority:          priority,
			ChapterID:         req.ChapterID,
			Topic:             req.Topic,
			EstimatedDuration: draft.EstimatedDuration,
			AIGenerated:       true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	s.log.Info(ctx, "tasks generated", "user_id", userID, "topic", req.Topic, "count", len(tasks))
	return tasks, nil
}

func (s *TaskService) generateWithModel(ctx context.Context, topic, level string, count int) []generatedTask {
	if s.ai == nil || !s.ai.Enabled() {
		return nil
	}

	answer, err := s.ai.ChatCompletion(ctx, []ai.Message{
		{Role: "system", Content: "You are a study planner for a programming learning platform."},
		{Role: "user", Content: fmt.Sprintf(generatePromptTemplate, count, topic, level)},
	})
	if err != nil {
		s.log.Warn(ctx, "task generation via model failed, using default plan", "topic", topic, "error", err)
		return nil
	}

	var drafts []generatedTask
	if err := json.Unmarshal([]byte(extractJSONArray(answer)), &drafts); err != nil {
		s.log.Warn(ctx, "unparseable model response, using default plan", "topic", topic, "error", err)
		return nil
	}

	var valid []generatedTask
	for _, d := range drafts {
		if d.Title == "" {
			continue
		}
		valid = append(valid, d)
	}
	if len(valid) > count {
		valid = valid[:count]
	}
	return valid
}

// extractJSONArray strips any prose or markdown fencing surrounding a
// JSON array in a model response.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

func defaultPlan(topic string, count int) []generatedTask {
	plan := []generatedTask{
		{
			Title:             fmt.Sprintf("Read an introduction to %s", topic),
			Description:       fmt.Sprintf("Find and read introductory material covering the fundamentals of %s.", topic),
			Type:              string(structs.TaskReading),
			Priority:          string(structs.PriorityHigh),
			EstimatedDuration: 30,
		},
		{
			Title:             fmt.Sprintf("Study the core concepts of %s", topic),
			Description:       fmt.Sprintf("Work through the main concepts of %s and take notes.", topic),
			Type:              string(structs.TaskStudy),
			Priority:          string(structs.PriorityHigh),
			EstimatedDuration: 45,
		},
		{
			Title:             fmt.Sprintf("Complete practice exercises on %s", topic),
			Description:       fmt.Sprintf("Solve hands-on exercises applying %s.", topic),
			Type:              string(structs.TaskExercise),
			Priority:          string(structs.PriorityMedium),
			EstimatedDuration: 60,
		},
		{
			Title:             fmt.Sprintf("Take a self-assessment quiz on %s", topic),
			Description:       fmt.Sprintf("Test your understanding of %s with a short quiz.", topic),
			Type:              string(structs.TaskQuiz),
			Priority:          string(structs.PriorityMedium),
			EstimatedDuration: 20,
		},
		{
			Title:             fmt.Sprintf("Review your notes on %s", topic),
			Description:       fmt.Sprintf("Revisit what you learned about %s and fill gaps.", topic),
			Type:              string(structs.TaskReview),
			Priority:          string(structs.PriorityLow),
			EstimatedDuration: 25,
		},
	}
	if count < len(plan) {
		plan = plan[:count]
	}
	return plan
}

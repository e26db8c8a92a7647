package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/structs"
)

// TaskFilter narrows task listings. Zero values mean no filtering.
type TaskFilter struct {
	Status    structs.TaskStatus
	Type      structs.TaskType
	Priority  structs.TaskPriority
	ChapterID string
}

// TaskRepository defines task persistence operations. All reads and
// writes are scoped to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, task *structs.Task) error
	FindByID(ctx context.Context, userID string, id int64) (*structs.Task, error)
	ListAfter(ctx context.Context, userID string, filter TaskFilter, after *paging.Position, limit int) ([]*structs.Task, error)
	Update(ctx context.Context, task *structs.Task) error
	Delete(ctx context.Context, userID string, id int64) error
	CountByField(ctx context.Context, userID, field string) (map[string]int, error)
	RecentCompleted(ctx context.Context, userID string, limit int) ([]*structs.Task, error)
	Upcoming(ctx context.Context, userID string, limit int) ([]*structs.Task, error)
}

type taskRepository struct {
	d *data.Data
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(d *data.Data) TaskRepository {
	return &taskRepository{d: d}
}

const taskColumns = `id, user_id, title, description, task_type, status, priority, chapter_id, topic, tags,
	due_date, estimated_duration, is_ai_generated, completed_at, completion_notes, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *structs.Task) error {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		INSERT INTO tasks (user_id, title, description, task_type, status, priority, chapter_id, topic, tags,
			due_date, estimated_duration, is_ai_generated, completion_notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		task.UserID,
		task.Title,
		nullString(task.Description),
		string(task.Type),
		string(task.Status),
		string(task.Priority),
		nullString(task.ChapterID),
		nullString(task.Topic),
		encodeTags(task.Tags),
		formatNullTime(task.DueDate),
		task.EstimatedDuration,
		boolToInt(task.AIGenerated),
		nullString(task.CompletionNotes),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err := row.Scan(&task.ID); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, userID string, id int64) (*structs.Task, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?
	`), id, userID)
	return scanTask(row)
}

// ListAfter returns tasks ordered by id ascending, strictly after the
// given position when one is supplied. The paginator controls limit.
func (r *taskRepository) ListAfter(ctx context.Context, userID string, filter TaskFilter, after *paging.Position, limit int) ([]*structs.Task, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		where = append(where, "task_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.ChapterID != "" {
		where = append(where, "chapter_id = ?")
		args = append(args, filter.ChapterID)
	}
	if after != nil {
		where = append(where, "id > ?")
		args = append(args, after.Key)
	}
	args = append(args, limit)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC LIMIT ?`
	rows, err := r.d.DB().QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) Update(ctx context.Context, task *structs.Task) error {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		UPDATE tasks SET title = ?, description = ?, task_type = ?, status = ?, priority = ?, chapter_id = ?,
			topic = ?, tags = ?, due_date = ?, estimated_duration = ?, completed_at = ?, completion_notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`),
		task.Title,
		nullString(task.Description),
		string(task.Type),
		string(task.Status),
		string(task.Priority),
		nullString(task.ChapterID),
		nullString(task.Topic),
		encodeTags(task.Tags),
		formatNullTime(task.DueDate),
		task.EstimatedDuration,
		formatNullTime(task.CompletedAt),
		nullString(task.CompletionNotes),
		formatTime(task.UpdatedAt),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(res)
}

func (r *taskRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		DELETE FROM tasks WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRow(res)
}

// CountByField groups the user's tasks by status or task_type. The
// field name comes from a fixed set, never from user input.
func (r *taskRepository) CountByField(ctx context.Context, userID, field string) (map[string]int, error) {
	if field != "status" && field != "task_type" {
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	rows, err := r.d.DB().QueryContext(ctx, r.d.Rebind(`
		SELECT `+field+`, COUNT(*) FROM tasks WHERE user_id = ? GROUP BY `+field+`
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			value string
			n     int
		)
		if err := rows.Scan(&value, &n); err != nil {
			return nil, err
		}
		counts[value] = n
	}
	return counts, rows.Err()
}

func (r *taskRepository) RecentCompleted(ctx context.Context, userID string, limit int) ([]*structs.Task, error) {
	rows, err := r.d.DB().QueryContext(ctx, r.d.Rebind(`
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND status = ? AND completed_at IS NOT NULL
		ORDER BY completed_at DESC LIMIT ?
	`), userID, string(structs.TaskCompleted), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) Upcoming(ctx context.Context, userID string, limit int) ([]*structs.Task, error) {
	rows, err := r.d.DB().QueryContext(ctx, r.d.Rebind(`
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND status IN (?, ?) AND due_date IS NOT NULL AND due_date >= ?
		ORDER BY due_date ASC LIMIT ?
	`), userID, string(structs.TaskPending), string(structs.TaskInProgress), formatTime(nowUTC()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row rowScanner) (*structs.Task, error) {
	var (
		task            structs.Task
		description     sql.NullString
		taskType        string
		status          string
		priority        string
		chapterID       sql.NullString
		topic           sql.NullString
		tags            sql.NullString
		dueDate         sql.NullString
		aiGenerated     int
		completedAt     sql.NullString
		completionNotes sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&taskType,
		&status,
		&priority,
		&chapterID,
		&topic,
		&tags,
		&dueDate,
		&task.EstimatedDuration,
		&aiGenerated,
		&completedAt,
		&completionNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Type = structs.TaskType(taskType)
	task.Status = structs.TaskStatus(status)
	task.Priority = structs.TaskPriority(priority)
	task.ChapterID = chapterID.String
	task.Topic = topic.String
	task.Tags = decodeTags(tags)
	task.DueDate = parseNullTime(dueDate)
	task.AIGenerated = aiGenerated != 0
	task.CompletedAt = parseNullTime(completedAt)
	task.CompletionNotes = completionNotes.String
	task.CreatedAt = parseTime(createdAt)
	task.UpdatedAt = parseTime(updatedAt)
	return &task, nil
}

func scanTask(row *sql.Row) (*structs.Task, error) {
	return scanTaskRow(row)
}

func scanTasks(rows *sql.Rows) ([]*structs.Task, error) {
	var tasks []*structs.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func encodeTags(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return string(b)
}

func decodeTags(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s.String), &tags); err != nil {
		return nil
	}
	return tags
}

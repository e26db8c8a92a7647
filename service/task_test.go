package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnhub/learnhub/ai"
	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/structs"
)

func newTaskFixture() (*TaskService, *fakeTaskRepo) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(&config.AI{}, repo, ai.NewClient(&config.AI{}), logger.StdLogger())
	return svc, repo
}

func TestTaskCreate(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", &CreateTaskRequest{
		Title: "  Read chapter 1  ",
		Type:  "reading",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.Title != "Read chapter 1" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Status != structs.TaskPending {
		t.Errorf("expected pending status, got %s", task.Status)
	}
	if task.Priority != structs.PriorityMedium {
		t.Errorf("expected default priority, got %s", task.Priority)
	}

	if _, err := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "x", Type: "sleeping"}); !errors.Is(err, ErrInvalidTaskField) {
		t.Errorf("expected ErrInvalidTaskField, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "x", Type: "study", Priority: "urgent"}); !errors.Is(err, ErrInvalidTaskField) {
		t.Errorf("expected ErrInvalidTaskField, got %v", err)
	}
}

func TestTaskListPagination(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "t", Type: "study"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := svc.Create(ctx, "u2", &CreateTaskRequest{Title: "other", Type: "study"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	page, err := svc.List(ctx, "u1", &ListTasksRequest{Page: paging.Params{Limit: 2}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Items) != 2 || !page.HasNext || page.NextCursor == "" {
		t.Fatalf("unexpected first page: items=%d hasNext=%v", len(page.Items), page.HasNext)
	}

	var seen []int64
	for _, item := range page.Items {
		seen = append(seen, item.ID)
	}

	cursor := page.NextCursor
	for cursor != "" {
		page, err = svc.List(ctx, "u1", &ListTasksRequest{Page: paging.Params{Limit: 2, Cursor: cursor}})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		for _, item := range page.Items {
			seen = append(seen, item.ID)
		}
		cursor = page.NextCursor
	}

	if len(seen) != 5 {
		t.Fatalf("expected 5 tasks across pages, got %d", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Errorf("ids out of order: %v", seen)
		}
	}

	// Invalid cursor surfaces the sentinel.
	if _, err := svc.List(ctx, "u1", &ListTasksRequest{Page: paging.Params{Limit: 2, Cursor: "!!!"}}); !errors.Is(err, paging.ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestTaskUpdateCompletion(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "t", Type: "study"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := "completed"
	notes := "all done"
	updated, err := svc.Update(ctx, "u1", task.ID, &UpdateTaskRequest{Status: &status, CompletionNotes: &notes})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Error("expected completed_at to be stamped")
	}
	if updated.CompletionNotes != "all done" {
		t.Errorf("unexpected notes %q", updated.CompletionNotes)
	}

	// Reopening clears the completion timestamp.
	status = "pending"
	updated, err = svc.Update(ctx, "u1", task.ID, &UpdateTaskRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Error("expected completed_at to be cleared")
	}

	// Updating a foreign task is not found.
	if _, err := svc.Update(ctx, "u2", task.ID, &UpdateTaskRequest{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	task, _ := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "t", Type: "study"})
	if err := svc.Delete(ctx, "u2", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := svc.Delete(ctx, "u1", task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, "u1", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestTaskProgress(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "t", Type: "study"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	task, _ := svc.Create(ctx, "u1", &CreateTaskRequest{Title: "t", Type: "quiz"})
	status := "completed"
	if _, err := svc.Update(ctx, "u1", task.ID, &UpdateTaskRequest{Status: &status}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	progress, err := svc.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.TotalTasks != 4 || progress.CompletedTasks != 1 {
		t.Errorf("unexpected totals: %+v", progress)
	}
	if progress.CompletionPercentage != 25 {
		t.Errorf("expected 25%%, got %v", progress.CompletionPercentage)
	}
	if progress.TasksByType["study"] != 3 || progress.TasksByType["quiz"] != 1 {
		t.Errorf("unexpected type counts: %v", progress.TasksByType)
	}
	if len(progress.RecentCompletions) != 1 {
		t.Errorf("expected 1 recent completion, got %d", len(progress.RecentCompletions))
	}
}

func TestGenerateFallbackWithoutProvider(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	tasks, err := svc.Generate(ctx, "u1", &GenerateTasksRequest{Topic: "goroutines", Count: 3})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 default tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if !task.AIGenerated {
			t.Error("expected tasks to be flagged as generated")
		}
		if task.Topic != "goroutines" {
			t.Errorf("expected topic carried over, got %q", task.Topic)
		}
		if task.Status != structs.TaskPending {
			t.Errorf("expected pending status, got %s", task.Status)
		}
	}
}

func TestGenerateWithModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plan := `[{"title":"Learn channels","description":"Buffered vs unbuffered.","task_type":"study","priority":"high","estimated_duration":40},
			{"title":"Channel quiz","description":"Check yourself.","task_type":"quiz","priority":"medium","estimated_duration":15}]`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"content": []map[string]any{{"type": "text", "text": "Here is your plan:\n" + plan}},
			},
		})
	}))
	defer srv.Close()

	repo := newFakeTaskRepo()
	client := ai.NewClient(&config.AI{BaseURL: srv.URL, APIKey: "k", ChatModel: "command-r"})
	svc := NewTaskService(&config.AI{}, repo, client, logger.StdLogger())

	tasks, err := svc.Generate(context.Background(), "u1", &GenerateTasksRequest{Topic: "channels", Count: 5})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 model tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Learn channels" || tasks[0].Type != structs.TaskStudy {
		t.Errorf("unexpected task: %+v", tasks[0])
	}
	if tasks[1].Type != structs.TaskQuiz || tasks[1].EstimatedDuration != 15 {
		t.Errorf("unexpected task: %+v", tasks[1])
	}
}

func TestGenerateFallbackOnBadModelOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"content": []map[string]any{{"type": "text", "text": "Sorry, I cannot help with that."}},
			},
		})
	}))
	defer srv.Close()

	repo := newFakeTaskRepo()
	client := ai.NewClient(&config.AI{BaseURL: srv.URL, APIKey: "k"})
	svc := NewTaskService(&config.AI{}, repo, client, logger.StdLogger())

	tasks, err := svc.Generate(context.Background(), "u1", &GenerateTasksRequest{Topic: "slices"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("expected the default 5-task plan, got %d", len(tasks))
	}
}

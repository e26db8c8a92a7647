package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/middleware"
	"github.com/learnhub/learnhub/net/resp"
	"github.com/learnhub/learnhub/service"
	"github.com/learnhub/learnhub/structs"
)

// TaskHandler serves study task endpoints.
type TaskHandler struct {
	svc *service.TaskService
	log *logger.Logger
}

// NewTaskHandler creates a task handler.
func NewTaskHandler(svc *service.TaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid task id"))
		return 0, false
	}
	return id, true
}

// Create adds a task.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	task, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, task)
}

// List returns one page of the user's tasks.
func (h *TaskHandler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	req := &service.ListTasksRequest{
		Filter: repository.TaskFilter{
			Status:    structs.TaskStatus(c.Query("status")),
			Type:      structs.TaskType(c.Query("task_type")),
			Priority:  structs.TaskPriority(c.Query("priority")),
			ChapterID: c.Query("chapter_id"),
		},
		Page: pageParams(c),
	}

	page, err := h.svc.List(c.Request.Context(), userID, req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, page)
}

// Get returns a single task.
func (h *TaskHandler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, task)
}

// Update applies partial task changes.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	task, err := h.svc.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, task)
}

// Delete removes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusNoContent)
}

// Progress summarizes the user's tasks.
func (h *TaskHandler) Progress(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	progress, err := h.svc.Progress(c.Request.Context(), userID)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, progress)
}

// Generate creates a study plan for a topic.
func (h *TaskHandler) Generate(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req service.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	tasks, err := h.svc.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, tasks)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/Amansingh80/task-management-backend-complete/internal/auth"
	"github.com/Amansingh80/task-management-backend-complete/internal/respond"
	"github.com/Amansingh80/task-management-backend-complete/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskStore is what the handlers need from storage; all queries are
// scoped to the owning user.
type TaskStore interface {
	CreateTask(ctx context.Context, userID uuid.UUID, title string, description *string, status string) (*storage.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*storage.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID) ([]storage.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update storage.TaskUpdate) (*storage.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type TaskHandler struct {
	Store  TaskStore
	Logger *slog.Logger
}

func NewTaskHandler(store TaskStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{Store: store, Logger: logger}
}

func (h *TaskHandler) RegisterRoutes(r gin.IRouter, authn gin.HandlerFunc) {
	g := r.Group("/api/tasks", authn)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/toggle", h.Toggle)
}

type taskView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

func viewOf(t *storage.Task) taskView {
	return taskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Access token required")
		return
	}

	tasks, err := h.Store.ListTasks(c.Request.Context(), userID)
	if err != nil {
		respond.Internal(c, h.Logger, "list tasks failed", err)
		return
	}

	views := make([]taskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, viewOf(&tasks[i]))
	}
	respond.Success(c, http.StatusOK, "", gin.H{"tasks": views})
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.Store.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Task not found")
			return
		}
		respond.Internal(c, h.Logger, "get task failed", err)
		return
	}

	respond.Success(c, http.StatusOK, "", gin.H{"task": viewOf(task)})
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Access token required")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	var errs []respond.FieldError
	if req.Title == "" {
		errs = append(errs, respond.FieldError{Field: "title", Message: "Title is required"})
	}
	status := storage.TaskStatusPending
	if req.Status != nil {
		if !validStatus(*req.Status) {
			errs = append(errs, respond.FieldError{Field: "status", Message: "Invalid status"})
		} else {
			status = *req.Status
		}
	}
	if len(errs) > 0 {
		respond.ValidationFailed(c, errs)
		return
	}

	task, err := h.Store.CreateTask(c.Request.Context(), userID, req.Title, req.Description, status)
	if err != nil {
		respond.Internal(c, h.Logger, "create task failed", err)
		return
	}

	respond.Success(c, http.StatusCreated, "Task created successfully", gin.H{"task": viewOf(task)})
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "Task not found")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []respond.FieldError
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			errs = append(errs, respond.FieldError{Field: "title", Message: "Title cannot be empty"})
		}
		req.Title = &trimmed
	}
	if req.Status != nil && !validStatus(*req.Status) {
		errs = append(errs, respond.FieldError{Field: "status", Message: "Invalid status"})
	}
	if len(errs) > 0 {
		respond.ValidationFailed(c, errs)
		return
	}

	task, err := h.Store.UpdateTask(c.Request.Context(), userID, taskID, storage.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Task not found")
			return
		}
		respond.Internal(c, h.Logger, "update task failed", err)
		return
	}

	respond.Success(c, http.StatusOK, "Task updated successfully", gin.H{"task": viewOf(task)})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.Store.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Task not found")
			return
		}
		respond.Internal(c, h.Logger, "delete task failed", err)
		return
	}

	respond.Success(c, http.StatusOK, "Task deleted successfully", nil)
}

// Toggle flips a task between COMPLETED and PENDING.
func (h *TaskHandler) Toggle(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.Store.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Task not found")
			return
		}
		respond.Internal(c, h.Logger, "toggle task failed", err)
		return
	}

	next := storage.TaskStatusCompleted
	if task.Status == storage.TaskStatusCompleted {
		next = storage.TaskStatusPending
	}

	updated, err := h.Store.UpdateTask(c.Request.Context(), userID, taskID, storage.TaskUpdate{Status: &next})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Task not found")
			return
		}
		respond.Internal(c, h.Logger, "toggle task failed", err)
		return
	}

	respond.Success(c, http.StatusOK, "Task updated successfully", gin.H{"task": viewOf(updated)})
}

func validStatus(status string) bool {
	switch status {
	case storage.TaskStatusPending, storage.TaskStatusInProgress, storage.TaskStatusCompleted:
		return true
	}
	return false
}

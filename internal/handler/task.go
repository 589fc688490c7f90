package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/focusdoro/internal/domain"
	"github.com/msomdec/focusdoro/internal/service"
)

// TaskHandler handles task HTTP requests.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// HandleList returns the user's tasks.
// GET /api/tasks
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	tasks, err := h.tasks.List(r.Context(), user.ID)
	if err != nil {
		slog.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching tasks.")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTOs(tasks))
}

// HandleCreate creates a task, enforcing the free-tier cap.
// POST /api/tasks
// Request: {"title":"...","description":"...","priority":"medium","estimatedPomodoros":2}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Title              string `json:"title"`
		Description        string `json:"description"`
		Priority           string `json:"priority"`
		EstimatedPomodoros int    `json:"estimatedPomodoros"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, req.Title, req.Description,
		domain.TaskPriority(req.Priority), req.EstimatedPomodoros)
	if err != nil {
		if errors.Is(err, domain.ErrTaskLimitReached) {
			writeError(w, http.StatusForbidden, "Free plan task limit reached. Upgrade to add more tasks.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating task.")
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// HandleUpdate updates a task.
// PUT /api/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	var req struct {
		Title              string `json:"title"`
		Description        string `json:"description"`
		Priority           string `json:"priority"`
		EstimatedPomodoros int    `json:"estimatedPomodoros"`
		Completed          bool   `json:"completed"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Update(r.Context(), user.ID, taskID, req.Title, req.Description,
		domain.TaskPriority(req.Priority), req.EstimatedPomodoros, req.Completed)
	if err != nil {
		h.writeTaskError(w, err, "update task")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleToggleComplete flips a task's completed flag.
// PUT /api/tasks/{id}/complete
func (h *TaskHandler) HandleToggleComplete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	task, err := h.tasks.ToggleComplete(r.Context(), user.ID, taskID)
	if err != nil {
		h.writeTaskError(w, err, "toggle task")
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleDelete removes a task.
// DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	if err := h.tasks.Delete(r.Context(), user.ID, taskID); err != nil {
		h.writeTaskError(w, err, "delete task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully."})
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found.")
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

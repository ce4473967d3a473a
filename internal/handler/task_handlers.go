package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mtlprog/studybuddy/internal/domain"
	"github.com/mtlprog/studybuddy/internal/handler/dto"
	"github.com/mtlprog/studybuddy/internal/service"
)

// handleListTasks lists tasks.
// @Summary List tasks
// @Description Lists tasks in creation order, optionally filtered and sorted.
// @Tags tasks
// @Produce json
// @Param status query string false "TODO, IN_PROGRESS, COMPLETED or CANCELLED"
// @Param subject query string false "Subject, case-insensitive"
// @Param filter query string false "pending or overdue"
// @Param sort query string false "priority or deadline"
// @Success 200 {object} dto.TasksListResponse
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	registry := h.tracker.Tasks()

	var tasks []domain.Task
	switch sort := query.Get("sort"); sort {
	case "":
		tasks = registry.All()
	case "priority":
		tasks = registry.SortedByPriority()
	case "deadline":
		tasks = registry.SortedByDeadline()
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid sort, must be: priority, deadline")
		return
	}

	var keep []func(domain.Task) bool

	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		keep = append(keep, func(t domain.Task) bool { return t.Status == status })
	}

	if subject := query.Get("subject"); subject != "" {
		bySubject := idSet(registry.BySubject(subject))
		keep = append(keep, func(t domain.Task) bool { return bySubject[t.ID] })
	}

	switch filter := query.Get("filter"); filter {
	case "":
	case "pending":
		keep = append(keep, domain.Task.IsPending)
	case "overdue":
		overdue := idSet(registry.Overdue())
		keep = append(keep, func(t domain.Task) bool { return overdue[t.ID] })
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid filter, must be: pending, overdue")
		return
	}

	filtered := tasks[:0:0]
	for _, t := range tasks {
		if all(keep, t) {
			filtered = append(filtered, t)
		}
	}

	respondJSON(w, http.StatusOK, dto.ToTasksListResponse(filtered, h.tracker.Now()))
}

// handleCreateTask creates a new task.
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	task, err := h.tracker.CreateTask(ctx, service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Priority:    priority,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task, h.tracker.Now()))
}

// handleGetTask returns a single task.
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	task, ok := h.tracker.Tasks().Get(taskID)
	if !ok {
		respondDomainError(w, domain.ErrTaskNotFound)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, h.tracker.Now()))
}

// handleUpdateTaskStatus changes task status.
// @Summary Update task status
// @Description Moving a task to COMPLETED records its completion time.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /tasks/{id}/status [patch]
func (h *Handler) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	task, found, err := h.tracker.UpdateTaskStatus(ctx, taskID, status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !found {
		respondDomainError(w, domain.ErrTaskNotFound)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, h.tracker.Now()))
}

// handleDeleteTask deletes a task.
// @Summary Delete task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	deleted, err := h.tracker.DeleteTask(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !deleted {
		respondDomainError(w, domain.ErrTaskNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func idSet(tasks []domain.Task) map[string]bool {
	set := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		set[t.ID] = true
	}
	return set
}

func all(preds []func(domain.Task) bool, t domain.Task) bool {
	for _, p := range preds {
		if !p(t) {
			return false
		}
	}
	return true
}

package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/response"
)

type TaskCreateRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	ProjectID   uint                `json:"project_id" binding:"required"`
	StartDate   *time.Time          `json:"start_date"`
	EndDate     *time.Time          `json:"end_date"`
	Priority    models.TaskPriority `json:"priority"`
}

type TaskUpdateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type TaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

type TaskPriorityRequest struct {
	Priority models.TaskPriority `json:"priority" binding:"required"`
}

type LabelTaskRequest struct {
	TaskID  uint `json:"task_id" binding:"required"`
	LabelID uint `json:"label_id" binding:"required"`
}

type AssignUserRequest struct {
	TaskID uint `json:"task_id" binding:"required"`
	UserID uint `json:"user_id" binding:"required"`
}

// CreateTask requires the referenced project to exist.
func (h *Handler) CreateTask(c *gin.Context) {
	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityLow
	}
	if !priority.Valid() {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid task priority provided."))
		return
	}

	uow := h.uow()

	// The token can outlive the account; the creator must still exist.
	creatorID := c.GetUint("userID")
	creator, err := uow.Users.GetByID(creatorID)
	if err != nil {
		h.internalError(c, "creating the task", err)
		return
	}
	if creator == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", creatorID)))
		return
	}

	project, err := uow.Projects.GetByID(req.ProjectID)
	if err != nil {
		h.internalError(c, "creating the task", err)
		return
	}
	if project == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Project with ID %d not found", req.ProjectID)))
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		CreatedByID: creatorID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	uow.Tasks.Add(task)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.CreatedWith(task))
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	task, err := h.uow().Tasks.GetWithRelations(id)
	if err != nil {
		h.internalError(c, "retrieving the task", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", id)))
		return
	}

	respond(c, response.SuccessfulWith(task))
}

func (h *Handler) ListTasks(c *gin.Context) {
	offset, limit := pagination(c)
	uow := h.uow()

	if projectID, ok := queryUint(c, "project_id"); ok {
		tasks, err := uow.Tasks.ListByProject(projectID, offset, limit)
		if err != nil {
			h.internalError(c, "retrieving tasks", err)
			return
		}
		respond(c, response.SuccessfulWith(tasks))
		return
	}

	tasks, err := uow.Tasks.List(offset, limit)
	if err != nil {
		h.internalError(c, "retrieving tasks", err)
		return
	}

	respond(c, response.SuccessfulWith(tasks))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(id)
	if err != nil {
		h.internalError(c, "updating the task", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", id)))
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.StartDate = req.StartDate
	task.EndDate = req.EndDate

	uow.Tasks.Update(task)
	respond(c, uow.SaveChanges())
}

// DeleteTask cascades to the task's comments and association rows.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(id)
	if err != nil {
		h.internalError(c, "deleting the task", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", id)))
		return
	}

	uow.Tasks.Delete(task)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.NoContent())
}

func (h *Handler) ChangeTaskStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Status.Valid() {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid task status provided."))
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(id)
	if err != nil {
		h.internalError(c, "changing the task status", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", id)))
		return
	}

	task.Status = req.Status

	uow.Tasks.Update(task)
	respond(c, uow.SaveChanges())
}

func (h *Handler) ChangeTaskPriority(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req TaskPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Priority.Valid() {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid task priority provided."))
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(id)
	if err != nil {
		h.internalError(c, "changing the task priority", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", id)))
		return
	}

	task.Priority = req.Priority

	uow.Tasks.Update(task)
	respond(c, uow.SaveChanges())
}

func (h *Handler) AssignLabel(c *gin.Context) {
	var req LabelTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(req.TaskID)
	if err != nil {
		h.internalError(c, "assigning the label", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", req.TaskID)))
		return
	}

	label, err := uow.Labels.GetByID(req.LabelID)
	if err != nil {
		h.internalError(c, "assigning the label", err)
		return
	}
	if label == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Label with ID %d not found", req.LabelID)))
		return
	}

	uow.Tasks.AppendLabel(task, label)
	respond(c, uow.SaveChanges())
}

func (h *Handler) AssignUser(c *gin.Context) {
	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(req.TaskID)
	if err != nil {
		h.internalError(c, "assigning the user", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", req.TaskID)))
		return
	}

	user, err := uow.Users.GetByID(req.UserID)
	if err != nil {
		h.internalError(c, "assigning the user", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", req.UserID)))
		return
	}

	uow.Tasks.AppendAssignee(task, user)
	respond(c, uow.SaveChanges())
}

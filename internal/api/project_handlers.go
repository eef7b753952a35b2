package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/response"
)

type ProjectCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

type ProjectUpdateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

type ProjectStatusRequest struct {
	Status models.ProjectStatus `json:"status" binding:"required"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if !req.StartDate.Before(req.EndDate) {
		respond(c, response.Failed(response.StatusBadRequest).
			AddError("Start date must be earlier than end date."))
		return
	}

	uow := h.uow()

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatusNotStarted,
		CreatedByID: c.GetUint("userID"),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	uow.Projects.Add(project)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.CreatedWith(project))
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	project, err := h.uow().Projects.GetWithTasks(id)
	if err != nil {
		h.internalError(c, "retrieving the project", err)
		return
	}
	if project == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Project with ID %d not found", id)))
		return
	}

	respond(c, response.SuccessfulWith(project))
}

func (h *Handler) ListProjects(c *gin.Context) {
	offset, limit := pagination(c)

	projects, err := h.uow().Projects.List(offset, limit)
	if err != nil {
		h.internalError(c, "retrieving projects", err)
		return
	}

	respond(c, response.SuccessfulWith(projects))
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if !req.StartDate.Before(req.EndDate) {
		respond(c, response.Failed(response.StatusBadRequest).
			AddError("Start date must be earlier than end date."))
		return
	}

	uow := h.uow()

	project, err := uow.Projects.GetByID(id)
	if err != nil {
		h.internalError(c, "updating the project", err)
		return
	}
	if project == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Project with ID %d not found", id)))
		return
	}

	project.Title = req.Title
	project.Description = req.Description
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate

	uow.Projects.Update(project)
	respond(c, uow.SaveChanges())
}

// DeleteProject cascades to the project's tasks and their comments and
// associations.
func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	uow := h.uow()

	project, err := uow.Projects.GetByID(id)
	if err != nil {
		h.internalError(c, "deleting the project", err)
		return
	}
	if project == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Project with ID %d not found", id)))
		return
	}

	uow.Projects.Delete(project)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.NoContent())
}

func (h *Handler) ChangeProjectStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Status.Valid() {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid project status provided."))
		return
	}

	uow := h.uow()

	project, err := uow.Projects.GetByID(id)
	if err != nil {
		h.internalError(c, "changing the project status", err)
		return
	}
	if project == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Project with ID %d not found", id)))
		return
	}

	project.Status = req.Status

	uow.Projects.Update(project)
	respond(c, uow.SaveChanges())
}

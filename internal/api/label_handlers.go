package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/response"
)

type LabelCreateRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type LabelUpdateRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateLabel enforces name uniqueness within the creator's scope; the same
// name under a different creator is allowed.
func (h *Handler) CreateLabel(c *gin.Context) {
	var req LabelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	createdByID := c.GetUint("userID")
	uow := h.uow()

	existing, err := uow.Labels.GetByNameAndCreator(req.Name, createdByID)
	if err != nil {
		h.internalError(c, "creating the label", err)
		return
	}
	if existing != nil {
		respond(c, response.Failed(response.StatusConflict).
			AddError(fmt.Sprintf("Label with name '%s' already exists for user %d", req.Name, createdByID)))
		return
	}

	label := &models.Label{
		Name:        req.Name,
		Color:       req.Color,
		CreatedByID: createdByID,
	}

	uow.Labels.Add(label)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.CreatedWith(label))
}

func (h *Handler) GetLabel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	label, err := h.uow().Labels.GetByID(id)
	if err != nil {
		h.internalError(c, "retrieving the label", err)
		return
	}
	if label == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Label with ID %d not found", id)))
		return
	}

	respond(c, response.SuccessfulWith(label))
}

func (h *Handler) ListLabels(c *gin.Context) {
	offset, limit := pagination(c)

	labels, err := h.uow().Labels.List(offset, limit)
	if err != nil {
		h.internalError(c, "retrieving labels", err)
		return
	}

	respond(c, response.SuccessfulWith(labels))
}

func (h *Handler) UpdateLabel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req LabelUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	label, err := uow.Labels.GetByID(id)
	if err != nil {
		h.internalError(c, "updating the label", err)
		return
	}
	if label == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Label with ID %d not found", id)))
		return
	}

	if req.Name != label.Name {
		existing, err := uow.Labels.GetByNameAndCreator(req.Name, label.CreatedByID)
		if err != nil {
			h.internalError(c, "updating the label", err)
			return
		}
		if existing != nil {
			respond(c, response.Failed(response.StatusConflict).
				AddError(fmt.Sprintf("Label with name '%s' already exists for user %d", req.Name, label.CreatedByID)))
			return
		}
	}

	label.Name = req.Name
	label.Color = req.Color

	uow.Labels.Update(label)
	respond(c, uow.SaveChanges())
}

func (h *Handler) DeleteLabel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	uow := h.uow()

	label, err := uow.Labels.GetByID(id)
	if err != nil {
		h.internalError(c, "deleting the label", err)
		return
	}
	if label == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Label with ID %d not found", id)))
		return
	}

	uow.Labels.Delete(label)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.NoContent())
}

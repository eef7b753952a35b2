package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/response"
)

type CommentCreateRequest struct {
	TaskID  uint   `json:"task_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type CommentUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment requires the referenced task to exist; the author is the
// authenticated user.
func (h *Handler) CreateComment(c *gin.Context) {
	var req CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	task, err := uow.Tasks.GetByID(req.TaskID)
	if err != nil {
		h.internalError(c, "creating the comment", err)
		return
	}
	if task == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Task with ID %d not found", req.TaskID)))
		return
	}

	userID := c.GetUint("userID")
	user, err := uow.Users.GetByID(userID)
	if err != nil {
		h.internalError(c, "creating the comment", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", userID)))
		return
	}

	comment := &models.Comment{
		TaskID:  req.TaskID,
		UserID:  userID,
		Content: req.Content,
	}

	uow.Comments.Add(comment)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.CreatedWith(comment))
}

func (h *Handler) GetComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	comment, err := h.uow().Comments.GetByID(id)
	if err != nil {
		h.internalError(c, "retrieving the comment", err)
		return
	}
	if comment == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Comment with ID %d not found", id)))
		return
	}

	respond(c, response.SuccessfulWith(comment))
}

// ListComments lists the comments of one task, oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	taskID, ok := queryUint(c, "task_id")
	if !ok {
		respond(c, response.Failed(response.StatusBadRequest).AddError("task_id query parameter is required"))
		return
	}
	offset, limit := pagination(c)

	comments, err := h.uow().Comments.ListByTask(taskID, offset, limit)
	if err != nil {
		h.internalError(c, "retrieving comments", err)
		return
	}

	respond(c, response.SuccessfulWith(comments))
}

func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	comment, err := uow.Comments.GetByID(id)
	if err != nil {
		h.internalError(c, "updating the comment", err)
		return
	}
	if comment == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Comment with ID %d not found", id)))
		return
	}

	comment.Content = req.Content

	uow.Comments.Update(comment)
	respond(c, uow.SaveChanges())
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	uow := h.uow()

	comment, err := uow.Comments.GetByID(id)
	if err != nil {
		h.internalError(c, "deleting the comment", err)
		return
	}
	if comment == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("Comment with ID %d not found", id)))
		return
	}

	uow.Comments.Delete(comment)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.NoContent())
}

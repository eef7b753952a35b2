package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/response"
)

type UserCreateRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	FirstName string          `json:"first_name" binding:"required"`
	LastName  string          `json:"last_name" binding:"required"`
	Password  string          `json:"password" binding:"required,min=8"`
	Role      models.UserRole `json:"role"`
}

type UserUpdateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type UserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

// CreateUser is the admin path; accounts created here are active immediately,
// no verification round-trip.
func (h *Handler) CreateUser(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleUser
	}
	if !role.Valid() {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid user role provided."))
		return
	}

	uow := h.uow()

	existing, err := uow.Users.GetByEmail(req.Email)
	if err != nil {
		h.internalError(c, "creating the user", err)
		return
	}
	if existing != nil {
		respond(c, response.Failed(response.StatusConflict).
			AddError(fmt.Sprintf("User with email %s already exists.", req.Email)))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, "creating the user", err)
		return
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserStatusActive,
	}

	uow.Users.Add(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.CreatedWith(user))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.uow().Users.GetByID(id)
	if err != nil {
		h.internalError(c, "retrieving the user", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", id)))
		return
	}

	respond(c, response.SuccessfulWith(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	offset, limit := pagination(c)

	users, err := h.uow().Users.List(offset, limit)
	if err != nil {
		h.internalError(c, "retrieving users", err)
		return
	}

	respond(c, response.SuccessfulWith(users))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByID(id)
	if err != nil {
		h.internalError(c, "updating the user", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", id)))
		return
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	uow.Users.Update(user)
	respond(c, uow.SaveChanges())
}

// ChangeUserStatus suspends or reactivates an account.
func (h *Handler) ChangeUserStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Status.Valid() {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid user status provided."))
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByID(id)
	if err != nil {
		h.internalError(c, "changing the user status", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", id)))
		return
	}

	user.Status = req.Status

	uow.Users.Update(user)
	respond(c, uow.SaveChanges())
}

// DeleteUser is blocked while projects, tasks, labels or comments still
// reference the user; the commit surfaces that as a Conflict.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByID(id)
	if err != nil {
		h.internalError(c, "deleting the user", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusNotFound).
			AddError(fmt.Sprintf("User with ID %d not found", id)))
		return
	}

	uow.Users.Delete(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.NoContent())
}

package api

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/database"
	"github.com/taskstack/task-management/internal/mailer"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/config"
	"github.com/taskstack/task-management/pkg/response"
)

type Handler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	mail       mailer.Sender
	cfg        *config.Config
}

func NewHandler(db *database.Database, jwtManager *auth.JWTManager, mail mailer.Sender, cfg *config.Config) *Handler {
	return &Handler{
		db:         db,
		jwtManager: jwtManager,
		mail:       mail,
		cfg:        cfg,
	}
}

// uow returns a fresh unit of work; one per request.
func (h *Handler) uow() *database.UnitOfWork {
	return database.NewUnitOfWork(h.db)
}

func respond(c *gin.Context, op *response.Operation) {
	c.JSON(op.HTTPStatus(), op)
}

func badRequest(c *gin.Context, err error) {
	respond(c, response.Failed(response.StatusBadRequest).AddError(err.Error()))
}

// internalError logs the cause and responds with a generic message; detail
// never reaches the caller.
func (h *Handler) internalError(c *gin.Context, action string, err error) {
	log.Printf("api: error while %s: %v", action, err)
	respond(c, response.Failed(response.StatusInternalServerError).
		AddError("An error occurred while "+action))
}

// sendMail delivers out-of-band; failures are logged, never surfaced.
func (h *Handler) sendMail(to, subject, body string) {
	go func() {
		if err := h.mail.Send(to, subject, body); err != nil {
			log.Printf("mailer: failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respond(c, response.Failed(response.StatusBadRequest).AddError("Invalid ID"))
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func pagination(c *gin.Context) (offset, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return (page - 1) * pageSize, pageSize
}

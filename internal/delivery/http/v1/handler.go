package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avdmitry-dev/go-task-api/internal/services"
)

type Handler interface {
	HandleListTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleAssignUserToTask(c *gin.Context)

	HandleCreateUser(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	tasks  services.TaskService
	users  services.UserService
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	userService services.UserService,
) Handler {
	return &handlerImpl{
		logger: logger,
		tasks:  taskService,
		users:  userService,
	}
}

// RegisterRoutes binds the HTTP surface to the handler. Users expose
// creation only.
func RegisterRoutes(router gin.IRouter, h Handler) {
	taskRouter := router.Group("/task")
	taskRouter.GET("", h.HandleListTasks)
	taskRouter.POST("", h.HandleCreateTask)
	taskRouter.PATCH("/:id", h.HandleUpdateTask)
	taskRouter.DELETE("/:id", h.HandleDeleteTask)
	taskRouter.PATCH("/:id/assign", h.HandleAssignUserToTask)

	userRouter := router.Group("/user")
	userRouter.POST("", h.HandleCreateUser)
}

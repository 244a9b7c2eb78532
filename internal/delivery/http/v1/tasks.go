package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avdmitry-dev/go-task-api/internal/repository"
	"github.com/avdmitry-dev/go-task-api/internal/services"
)

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description" binding:"omitnil,max=500"`
	UserID      *int64  `json:"user_id" binding:"omitnil,min=1"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description" binding:"omitnil,max=500"`
	Status      *string `json:"status" binding:"omitnil,oneof=todo in_progress completed"`
}

type assignUserRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1"`
}

func (h *handlerImpl) taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.logger.Error().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError("invalid task id"))
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c)
	if err != nil {
		abortWithFault(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortWithBindingError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
	})
	if err != nil {
		abortWithFault(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortWithBindingError(c, err)
		return
	}

	// A well-typed but empty body passes binding; reject it before it
	// reaches the service.
	if req.Title == nil && req.Description == nil && req.Status == nil {
		h.logger.Warn().
			Int64("task_id", id).
			Msg("no data provided for update")
		abort(c, newUnprocessableEntityError("No data provided for update"))
		return
	}

	task, err := h.tasks.UpdateTask(c, id, repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		abortWithFault(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	message, err := h.tasks.DeleteTask(c, id)
	if err != nil {
		abortWithFault(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *handlerImpl) HandleAssignUserToTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req assignUserRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortWithBindingError(c, err)
		return
	}

	task, err := h.tasks.AssignUserToTask(c, id, req.UserID)
	if err != nil {
		abortWithFault(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email,max=255"`
}

func (h *handlerImpl) HandleCreateUser(c *gin.Context) {
	var req createUserRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortWithBindingError(c, err)
		return
	}

	user, err := h.users.CreateUser(c, req.Name, req.Email)
	if err != nil {
		abortWithFault(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

package common

import (
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body shape shared by every JSON response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    any    `json:"user,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func RespondWithJSON(c *gin.Context, code int, env Envelope) {
	if env.Status == "" {
		env.Status = StatusSuccess
	}
	c.JSON(code, env)
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: StatusError, Message: message})
}

func AbortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Status: StatusError, Message: message})
}

// RespondWithList writes a success envelope with data and its length.
func RespondWithList[T any](c *gin.Context, code int, items []T) {
	if items == nil {
		items = make([]T, 0)
	}
	count := len(items)
	RespondWithJSON(c, code, Envelope{Count: &count, Data: items})
}

package response

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of every non-validation response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorsResponse carries field-level validation failures.
type ErrorsResponse struct {
	Errors interface{} `json:"errors"`
}

// Message sends {"message": ...}
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Errors sends {"errors": [...]}
func Errors(c *gin.Context, code int, errs interface{}) {
	c.JSON(code, ErrorsResponse{Errors: errs})
}

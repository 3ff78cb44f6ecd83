package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

// RespondSuccess writes the standard success envelope.
func RespondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

// RespondMessage writes a success envelope carrying only a message string.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "success",
		"message": message,
	})
}

// RespondError converts any error to the response envelope. Internal causes
// are logged here and replaced with a generic message.
func RespondError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Code == CodeInternal {
		log.Printf("internal error: %v", appErr)
	}
	c.JSON(appErr.HTTPStatus(), gin.H{
		"status":  "failed",
		"message": appErr.Message,
	})
}

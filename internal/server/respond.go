package server

import "github.com/gin-gonic/gin"

// jsonMessage writes the uniform failure body. No internal error detail
// ever reaches the client; only the supplied message does.
func jsonMessage(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

package utils

import "github.com/gin-gonic/gin"

// JSONError writes the API's uniform error body: {"message": "..."}.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// JSONMessage writes a plain informational body: {"message": "..."}.
func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

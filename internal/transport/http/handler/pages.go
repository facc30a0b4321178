package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page returns a shell handler for the front-end routes. The API serves no
// HTML; these exist so the route guard's redirect rules apply to real
// routes and stay observable end to end.
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": name})
	}
}

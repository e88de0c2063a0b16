package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// intQuery reads an integer query parameter, falling back on absence or junk
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// pathID parses the :id parameter. Anything but a positive integer is a 404,
// since no resource can live at that path.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}

// recipesLimit reads the optional recipes_limit parameter; 0 means no limit.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"recipes_limit": []string{"A non-negative integer is required."}})
		return 0, false
	}
	return n, true
}

// queryBool parses an optional boolean such as 1/0 or true/false. Absent or
// empty yields nil.
func queryBool(c *gin.Context, key string, verr *service.ValidationError) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		verr.Add(key, "A boolean value such as 1, 0, true or false is required.")
		return nil
	}
	return &v
}

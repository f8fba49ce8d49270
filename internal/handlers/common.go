package handlers

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justsurfingit/careerkit/internal/dtos"
)

const (
	UserHeader = "X-User-ID"

	// DefaultMarketLocation is used by the industry-demand and career-role
	// endpoints when the request names no location.
	DefaultMarketLocation = "India"

	userKey = "userID"
)

var unsafeDirChars = regexp.MustCompile(`[^a-z0-9_-]+`)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequireUser reads the caller's id from the X-User-ID header.
// Authentication happens in front of this service.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": UserHeader + " header is required"})
			return
		}
		c.Set(userKey, id)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// userDirName turns a user id into a safe directory name.
func userDirName(id string) string {
	return unsafeDirChars.ReplaceAllString(strings.ToLower(id), "-")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// bindLocation reads an optional {"location"} body. It writes the 400
// response itself and reports false on a malformed body.
func bindLocation(c *gin.Context) (string, bool) {
	var req dtos.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return "", false
	}
	if loc := strings.TrimSpace(req.Location); loc != "" {
		return loc, true
	}
	return DefaultMarketLocation, true
}

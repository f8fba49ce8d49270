package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/docs"
	"github.com/justsurfingit/careerkit/internal/dtos"
	"github.com/justsurfingit/careerkit/internal/models"
	"github.com/justsurfingit/careerkit/internal/services"
)

// RunPublisher hands a stored run to the workers.
type RunPublisher interface {
	PublishRun(ctx context.Context, run *models.Run) error
}

// RunHandler queues any pipeline for asynchronous execution.
type RunHandler struct {
	Runs      *services.RunService
	Publisher RunPublisher
	// UploadsDir bounds the local files a run may read.
	UploadsDir string
}

func NewRunHandler(runs *services.RunService, publisher RunPublisher, uploadsDir string) *RunHandler {
	return &RunHandler{Runs: runs, Publisher: publisher, UploadsDir: uploadsDir}
}

func (h *RunHandler) CreateRun(c *gin.Context) {
	if h.Publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run queue is not configured"})
		return
	}
	var req dtos.RunCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if !slices.Contains(agents.Kinds(), req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown pipeline kind: " + req.Kind})
		return
	}

	if len(req.Input) > 0 {
		var in agents.RunInput
		if err := json.Unmarshal(req.Input, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run input: " + err.Error()})
			return
		}
		if !h.ownsRef(userID(c), in.Image) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be one of your uploads"})
			return
		}
	}

	run, err := h.Runs.Create(req.Kind, userID(c), req.Input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create run: " + err.Error()})
		return
	}
	if err := h.Publisher.PublishRun(c.Request.Context(), run); err != nil {
		_ = h.Runs.Fail(run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue run: " + err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, run)
}

func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.Runs.Get(c.Param("id"))
	if isNotFound(err) || (err == nil && run.UserID != userID(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

// ownsRef reports whether ref is empty or names a file in the user's upload
// area: r2://uploads/<user>/... or a path under UploadsDir/<user>.
func (h *RunHandler) ownsRef(user, ref string) bool {
	if ref == "" {
		return true
	}
	dir := userDirName(user)
	if key, ok := strings.CutPrefix(ref, docs.R2Prefix); ok {
		return path.Clean(key) == key && strings.HasPrefix(key, "uploads/"+dir+"/")
	}
	if strings.Contains(ref, "://") {
		return false
	}

	base, err := filepath.Abs(filepath.Join(h.UploadsDir, dir))
	if err != nil {
		return false
	}
	target, err := filepath.Abs(ref)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/docs"
	"github.com/justsurfingit/careerkit/internal/dtos"
	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/services"
)

var (
	uploadFields = []string{"resume", "transcript", "certificate"}
	imageExts    = []string{".png", ".jpg", ".jpeg", ".webp"}
)

// AnalysisHandler serves the upload-time extractors and the personality
// review.
type AnalysisHandler struct {
	Suite      *agents.Suite
	Analyses   *services.AnalysisService
	UploadsDir string
	// Bucket, when set, receives new uploads instead of UploadsDir.
	Bucket *docs.R2
	Log    *zap.Logger
}

func NewAnalysisHandler(suite *agents.Suite, analyses *services.AnalysisService, uploadsDir string, bucket *docs.R2, log *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{Suite: suite, Analyses: analyses, UploadsDir: uploadsDir, Bucket: bucket, Log: logging.OrNop(log)}
}

// Upload is POST /analysis/upload. Files missing from the request are
// taken from the user's earlier uploads.
func (h *AnalysisHandler) Upload(c *gin.Context) {
	h.analyze(c, strings.TrimSpace(c.PostForm("githubUrl")), true)
}

// Process is POST /analysis/process: rerun the extractors on the stored
// files. Files in the request are ignored.
func (h *AnalysisHandler) Process(c *gin.Context) {
	githubURL := strings.TrimSpace(c.PostForm("githubUrl"))
	if githubURL == "" && c.ContentType() == gin.MIMEJSON {
		var req dtos.ProcessRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
			return
		}
		githubURL = strings.TrimSpace(req.GithubURL)
	}
	h.analyze(c, githubURL, false)
}

func (h *AnalysisHandler) analyze(c *gin.Context, githubURL string, store bool) {
	user := userID(c)
	dir := filepath.Join(h.UploadsDir, userDirName(user))

	refs := make(map[string]string, len(uploadFields))
	for _, field := range uploadFields {
		var ref string
		if store {
			var err error
			if ref, err = h.storeUpload(c, dir, user, field); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload: " + err.Error()})
				return
			}
		}
		if ref == "" {
			ref = pickExisting(dir, field)
		}
		refs[field] = ref
	}
	if refs["resume"] == "" || refs["transcript"] == "" || refs["certificate"] == "" || githubURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resume, Transcript, Certificate, and GitHub URL are required"})
		return
	}

	ex, err := h.extract(c.Request.Context(), refs, githubURL)
	if err != nil {
		h.Log.Warn("upload analysis failed", zap.String("user", user), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze uploads: " + err.Error()})
		return
	}

	analysis, err := h.Analyses.SaveExtractions(user, ex)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysisId": analysis.ID, "message": "Analysis saved"})
}

// extract runs the four extractors concurrently.
func (h *AnalysisHandler) extract(ctx context.Context, refs map[string]string, githubURL string) (services.Extractions, error) {
	var (
		resume, transcript agents.ImageReportOutput
		certificate        agents.CertificateOutput
		github             agents.GitHubOutput
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resume, err = h.Suite.Resume.Run(ctx, refs["resume"])
		return err
	})
	g.Go(func() (err error) {
		transcript, err = h.Suite.Transcript.Run(ctx, refs["transcript"])
		return err
	})
	g.Go(func() (err error) {
		certificate, err = h.Suite.Certificate.Run(ctx, refs["certificate"])
		return err
	})
	g.Go(func() (err error) {
		github, err = h.Suite.GitHub.Run(ctx, githubURL, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return services.Extractions{}, err
	}
	return services.Extractions{Resume: resume, Transcript: transcript, Certificate: certificate, GitHub: github}, nil
}

// storeUpload saves the request file for field and returns its reference,
// or "" when the request has none.
func (h *AnalysisHandler) storeUpload(c *gin.Context, dir, user, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	ext := uploadExt(fh.Filename)

	if h.Bucket != nil {
		data, err := readUpload(fh)
		if err != nil {
			return "", err
		}
		key := "uploads/" + userDirName(user) + "/" + field + ext
		return h.Bucket.Put(c.Request.Context(), key, docs.MIMEByExt(key), data)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for _, old := range imageExts {
		_ = os.Remove(filepath.Join(dir, field+old))
	}
	path := filepath.Join(dir, field+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", err
	}
	return path, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func uploadExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, ok := range imageExts {
		if ext == ok {
			return ext
		}
	}
	return ".png"
}

// pickExisting finds <base>.<png|jpg|jpeg|webp> in dir.
func pickExisting(dir, base string) string {
	for _, ext := range imageExts {
		p := filepath.Join(dir, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (h *AnalysisHandler) Latest(c *gin.Context) {
	analysis, err := h.Analyses.Latest(userID(c))
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *AnalysisHandler) PersonalityInstructions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Suite.Personality.Instructions())
}

// Personality stores the summary document even when it carries an error.
func (h *AnalysisHandler) Personality(c *gin.Context) {
	var req dtos.PersonalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "riasecCode is required"})
		return
	}
	out := h.Suite.Personality.Run(c.Request.Context(), req.RiasecCode)

	analysis, err := h.Analyses.SavePersonality(userID(c), out)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save personality summary: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Personality summary saved", "personalityResult": analysis.PersonalityResult})
}

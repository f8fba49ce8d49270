package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/dtos"
	"github.com/justsurfingit/careerkit/internal/services"
)

// StudentHandler merges the extractor results into a student profile and
// runs the pipelines that read its text report.
type StudentHandler struct {
	Suite    *agents.Suite
	Analyses *services.AnalysisService
	Students *services.StudentService
}

func NewStudentHandler(suite *agents.Suite, analyses *services.AnalysisService, students *services.StudentService) *StudentHandler {
	return &StudentHandler{Suite: suite, Analyses: analyses, Students: students}
}

func (h *StudentHandler) AnalyseFive(c *gin.Context) {
	user := userID(c)
	analysis, err := h.Analyses.Latest(user)
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis found for user"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis: " + err.Error()})
		return
	}

	out, err := h.Suite.Profile.Run(c.Request.Context(), agents.ProfileInput{
		Resume:      analysis.ResumeResult.Any(),
		Transcript:  analysis.TranscriptResult.Any(),
		Certificate: analysis.CertificateResult.Any(),
		GitHub:      analysis.GithubResult.Any(),
		Personality: analysis.PersonalityResult.Any(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate profile", "details": err.Error()})
		return
	}

	student, err := h.Students.Save(user, out.RawResponse)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "rawResponse": student.RawResponse})
}

func (h *StudentHandler) Latest(c *gin.Context) {
	student, err := h.Students.Latest(userID(c))
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No student result found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student result: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                 student.ID,
		"user_id":            student.UserID,
		"rawResponse":        student.RawResponse,
		"structured_profile": agents.StructuredProfile(student.RawResponse),
		"text_report":        agents.TextReport(student.RawResponse),
		"updated_at":         student.UpdatedAt,
	})
}

func (h *StudentHandler) SkillPathway(c *gin.Context) {
	var req dtos.TargetCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetCareer is required"})
		return
	}
	report, ok := h.textReport(c)
	if !ok {
		return
	}
	out, err := h.Suite.SkillPathway.Run(c.Request.Context(), req.TargetCareer, report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate skill pathway: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "pathway": out})
}

func (h *StudentHandler) CourseRecommendations(c *gin.Context) {
	report, ok := h.textReport(c)
	if !ok {
		return
	}
	plan, err := h.Suite.CoursePlan.Run(c.Request.Context(), report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recommend courses: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "recommendations": plan})
}

func (h *StudentHandler) PortfolioBuilder(c *gin.Context) {
	report, ok := h.textReport(c)
	if !ok {
		return
	}
	out, err := h.Suite.Portfolio.Run(c.Request.Context(), report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build portfolio: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "portfolio": out})
}

// textReport loads the stored profile's text report, writing the error
// response itself when there is none.
func (h *StudentHandler) textReport(c *gin.Context) (string, bool) {
	student, err := h.Students.Latest(userID(c))
	if isNotFound(err) || (err == nil && student.RawResponse == "") {
		c.JSON(http.StatusNotFound, gin.H{"error": "No student raw response found. Run 'Analyse five' first."})
		return "", false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student result: " + err.Error()})
		return "", false
	}
	report := agents.TextReport(student.RawResponse)
	if report == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text_report not found in rawResponse"})
		return "", false
	}
	return report, true
}

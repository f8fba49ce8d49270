package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/services"
)

// MarketHandler serves the job-market analysis and the career roles built
// on top of it.
type MarketHandler struct {
	Suite    *agents.Suite
	Demands  *services.DemandService
	Students *services.StudentService
}

func NewMarketHandler(suite *agents.Suite, demands *services.DemandService, students *services.StudentService) *MarketHandler {
	return &MarketHandler{Suite: suite, Demands: demands, Students: students}
}

// RunIndustryDemand is POST /industry-demand/run.
func (h *MarketHandler) RunIndustryDemand(c *gin.Context) {
	location, ok := bindLocation(c)
	if !ok {
		return
	}
	out, err := h.Suite.JobDemand.Run(c.Request.Context(), location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Industry demand analysis failed: " + err.Error()})
		return
	}
	demand, err := h.Demands.Record(userID(c), out)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save industry demand: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Industry demand updated", "data": demand})
}

// LatestIndustryDemand is GET /industry-demand/latest?location=.
func (h *MarketHandler) LatestIndustryDemand(c *gin.Context) {
	location := c.DefaultQuery("location", DefaultMarketLocation)
	demand, err := h.Demands.Latest(userID(c), location)
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load industry demand: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": demand})
}

// SuggestCareerRoles is POST /career-roles/suggest.
func (h *MarketHandler) SuggestCareerRoles(c *gin.Context) {
	location, ok := bindLocation(c)
	if !ok {
		return
	}
	user := userID(c)

	demand, err := h.Demands.Latest(user, location)
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No industry demand data found. Please generate industry demand data first."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load industry demand: " + err.Error()})
		return
	}

	student, err := h.Students.Latest(user)
	if isNotFound(err) || (err == nil && student.RawResponse == "") {
		c.JSON(http.StatusNotFound, gin.H{"error": "No student profile found. Please generate your profile first using 'Analyse five'."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student result: " + err.Error()})
		return
	}

	out, err := h.Suite.CareerRoles.Run(c.Request.Context(), services.JobAnalysis(demand), agents.StructuredProfile(student.RawResponse))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest career roles: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Career roles generated successfully", "suggested_roles": out.SuggestedRoles})
}

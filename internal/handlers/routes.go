package handlers

import "github.com/gin-gonic/gin"

// API groups the handlers mounted under /api/v1.
type API struct {
	Analysis *AnalysisHandler
	Students *StudentHandler
	Market   *MarketHandler
	Runs     *RunHandler
}

func (a *API) Register(api *gin.RouterGroup) {
	api.GET("/health", HealthCheck)

	user := api.Group("", RequireUser())
	{
		// Extractor results
		user.POST("/analysis/upload", a.Analysis.Upload)
		user.POST("/analysis/process", a.Analysis.Process)
		user.GET("/analysis/latest", a.Analysis.Latest)
		user.GET("/analysis/personality/instructions", a.Analysis.PersonalityInstructions)
		user.POST("/analysis/personality", a.Analysis.Personality)

		// Student profile
		user.POST("/students/analyse-five", a.Students.AnalyseFive)
		user.GET("/students/latest", a.Students.Latest)
		user.POST("/students/skill-pathway", a.Students.SkillPathway)
		user.POST("/students/course-recommendations", a.Students.CourseRecommendations)
		user.POST("/students/portfolio-builder", a.Students.PortfolioBuilder)

		// Job market
		user.POST("/career-roles/suggest", a.Market.SuggestCareerRoles)
		user.POST("/industry-demand/run", a.Market.RunIndustryDemand)
		user.GET("/industry-demand/latest", a.Market.LatestIndustryDemand)

		user.POST("/runs", a.Runs.CreateRun)
		user.GET("/runs/:id", a.Runs.GetRun)
	}
}

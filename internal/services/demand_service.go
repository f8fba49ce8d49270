package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/models"
)

type DemandService struct {
	DB *gorm.DB
}

func NewDemandService(db *gorm.DB) *DemandService {
	return &DemandService{DB: db}
}

// Record stores one job-market analysis for the user.
func (s *DemandService) Record(userID string, out agents.JobDemandOutput) (*models.IndustryDemand, error) {
	demand := &models.IndustryDemand{UserID: userID, Location: out.Location}

	fields := []struct {
		dst *models.JSONText
		v   any
	}{
		{&demand.JobDemandData, out.JobDemandData},
		{&demand.SalaryData, out.SalaryData},
		{&demand.SkillsData, out.SkillsData},
		{&demand.Summary, out.Summary},
	}
	for _, f := range fields {
		text, err := models.NewJSONText(f.v)
		if err != nil {
			return nil, fmt.Errorf("encode demand data: %w", err)
		}
		*f.dst = text
	}

	if err := s.DB.Create(demand).Error; err != nil {
		return nil, err
	}
	return demand, nil
}

// Latest returns the newest analysis for the user and location.
func (s *DemandService) Latest(userID, location string) (*models.IndustryDemand, error) {
	var demand models.IndustryDemand
	err := s.DB.Where(models.IndustryDemand{UserID: userID, Location: location}).
		Order("created_at desc, id desc").
		First(&demand).Error
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

// JobAnalysis is the document the career-roles pipeline reads. Missing
// sections are {}.
func JobAnalysis(d *models.IndustryDemand) map[string]any {
	return map[string]any{
		"job_demand_data": orEmpty(d.JobDemandData),
		"salary_data":     orEmpty(d.SalaryData),
		"skills_data":     orEmpty(d.SkillsData),
		"summary":         orEmpty(d.Summary),
		"location":        d.Location,
	}
}

func orEmpty(j models.JSONText) any {
	if v := j.Any(); v != nil {
		return v
	}
	return map[string]any{}
}

package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/careerkit/internal/models"
)

type AnalysisService struct {
	DB *gorm.DB
}

func NewAnalysisService(db *gorm.DB) *AnalysisService {
	return &AnalysisService{DB: db}
}

// Extractions are the four upload-time pipeline outputs.
type Extractions struct {
	Resume      any
	Transcript  any
	Certificate any
	GitHub      any
}

// SaveExtractions upserts the user's analysis. Nil results keep the stored
// value, and the personality result is left untouched.
func (s *AnalysisService) SaveExtractions(userID string, ex Extractions) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := s.DB.Where(models.Analysis{UserID: userID}).FirstOrInit(&analysis).Error; err != nil {
		return nil, err
	}

	fields := []struct {
		dst *models.JSONText
		v   any
	}{
		{&analysis.ResumeResult, ex.Resume},
		{&analysis.TranscriptResult, ex.Transcript},
		{&analysis.CertificateResult, ex.Certificate},
		{&analysis.GithubResult, ex.GitHub},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		text, err := models.NewJSONText(f.v)
		if err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}
		*f.dst = text
	}

	if err := s.DB.Save(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// SavePersonality upserts only the personality result.
func (s *AnalysisService) SavePersonality(userID string, result any) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := s.DB.Where(models.Analysis{UserID: userID}).FirstOrInit(&analysis).Error; err != nil {
		return nil, err
	}
	text, err := models.NewJSONText(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	analysis.PersonalityResult = text
	if err := s.DB.Save(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Latest returns gorm.ErrRecordNotFound when the user has no analysis.
func (s *AnalysisService) Latest(userID string) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := s.DB.Where(models.Analysis{UserID: userID}).First(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

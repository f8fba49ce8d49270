package services

import (
	"gorm.io/gorm"

	"github.com/justsurfingit/careerkit/internal/models"
)

type StudentService struct {
	DB *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{DB: db}
}

// Save stores the merged profile text, replacing any earlier one.
func (s *StudentService) Save(userID, rawResponse string) (*models.StudentResult, error) {
	var result models.StudentResult
	if err := s.DB.Where(models.StudentResult{UserID: userID}).FirstOrInit(&result).Error; err != nil {
		return nil, err
	}
	result.RawResponse = rawResponse
	if err := s.DB.Save(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *StudentService) Latest(userID string) (*models.StudentResult, error) {
	var result models.StudentResult
	if err := s.DB.Where(models.StudentResult{UserID: userID}).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

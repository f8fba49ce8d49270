package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justsurfingit/careerkit/internal/models"
)

// RunService tracks asynchronous pipeline runs.
type RunService struct {
	DB *gorm.DB
}

func NewRunService(db *gorm.DB) *RunService {
	return &RunService{DB: db}
}

func (s *RunService) Create(kind, userID string, input json.RawMessage) (*models.Run, error) {
	run := &models.Run{
		ID:     uuid.NewString(),
		Kind:   kind,
		UserID: userID,
		Input:  models.JSONText(input),
		Status: models.RunQueued,
	}
	if err := s.DB.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (s *RunService) Get(id string) (*models.Run, error) {
	var run models.Run
	if err := s.DB.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *RunService) MarkProcessing(id string) error {
	return s.update(id, map[string]any{"status": models.RunProcessing})
}

func (s *RunService) Complete(id string, output any) error {
	text, err := models.NewJSONText(output)
	if err != nil {
		return fmt.Errorf("encode run output: %w", err)
	}
	return s.update(id, map[string]any{"status": models.RunCompleted, "output": text, "error": ""})
}

func (s *RunService) Fail(id string, runErr error) error {
	return s.update(id, map[string]any{"status": models.RunFailed, "error": runErr.Error()})
}

func (s *RunService) update(id string, fields map[string]any) error {
	res := s.DB.Model(&models.Run{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// JSONText is a JSON document stored in a text column. It marshals as the
// document itself, or null when empty.
type JSONText string

func NewJSONText(v any) (JSONText, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return JSONText(b), nil
}

func (j JSONText) MarshalJSON() ([]byte, error) {
	if j == "" {
		return []byte("null"), nil
	}
	if !json.Valid([]byte(j)) {
		return json.Marshal(string(j))
	}
	return []byte(j), nil
}

func (j *JSONText) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*j = ""
		return nil
	}
	*j = JSONText(data)
	return nil
}

// Any decodes the document into a generic value; empty text is nil.
func (j JSONText) Any() any {
	if j == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(j), &v); err != nil {
		return string(j)
	}
	return v
}

// Analysis holds the latest extractor results of one user. Each result is
// the output document of its pipeline.
type Analysis struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	ResumeResult      JSONText `gorm:"type:text" json:"resume_result"`
	TranscriptResult  JSONText `gorm:"type:text" json:"transcript_result"`
	CertificateResult JSONText `gorm:"type:text" json:"certificate_result"`
	GithubResult      JSONText `gorm:"type:text" json:"github_result"`
	PersonalityResult JSONText `gorm:"type:text" json:"personality_result"`
}

// StudentResult is the merged student profile; RawResponse is the model
// text as returned, structured_profile and text_report are read from it.
type StudentResult struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      string `gorm:"uniqueIndex;not null" json:"user_id"`
	RawResponse string `gorm:"type:text" json:"raw_response"`
}

// IndustryDemand is one job-market analysis run. Runs are kept; readers
// take the newest per user and location.
type IndustryDemand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   string `gorm:"index;not null" json:"user_id"`
	Location string `gorm:"index;not null" json:"location"`

	JobDemandData JSONText `gorm:"type:text" json:"job_demand_data"`
	SalaryData    JSONText `gorm:"type:text" json:"salary_data"`
	SkillsData    JSONText `gorm:"type:text" json:"skills_data"`
	Summary       JSONText `gorm:"type:text" json:"summary"`
}

// Run statuses.
const (
	RunQueued     = "QUEUED"
	RunProcessing = "PROCESSING"
	RunCompleted  = "COMPLETED"
	RunFailed     = "FAILED"
)

// Run is an asynchronous pipeline execution handled by the queue worker.
type Run struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Kind   string   `gorm:"not null" json:"kind"`
	UserID string   `gorm:"index" json:"user_id"`
	Input  JSONText `gorm:"type:text" json:"input"`
	Status string   `gorm:"default:'QUEUED'" json:"status"`
	Output JSONText `gorm:"type:text" json:"output"`
	Error  string   `gorm:"type:text" json:"error,omitempty"`
}

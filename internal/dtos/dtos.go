package dtos

import "encoding/json"

type PersonalityRequest struct {
	RiasecCode string `json:"riasecCode" binding:"required"`
}

type TargetCareerRequest struct {
	TargetCareer string `json:"targetCareer" binding:"required"`
}

// LocationRequest is optional; an empty body means the default location.
type LocationRequest struct {
	Location string `json:"location"`
}

type ProcessRequest struct {
	GithubURL string `json:"githubUrl"`
}

type RunCreationRequest struct {
	Kind  string          `json:"kind" binding:"required"`
	Input json.RawMessage `json:"input"`
}

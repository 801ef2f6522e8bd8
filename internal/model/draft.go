package model

import "time"

// Draft is a certification being edited by one author session.
type Draft struct {
	ID            string        `json:"id"`
	Certification Certification `json:"certification"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OpenDraftRequest is the payload for opening a draft. CourseName "new"
// starts an empty certification.
type OpenDraftRequest struct {
	CourseName string `json:"course_name" binding:"required,min=1,max=255"`
}

// RenameRequest is the payload for renaming a draft certification.
type RenameRequest struct {
	Name string `json:"name" binding:"max=255"`
}

// ReplaceQuestionRequest is the payload for replacing one question of a draft.
type ReplaceQuestionRequest struct {
	Question Question `json:"question"`
}

// SaveDraftResponse wraps the upload validation result of a draft save.
type SaveDraftResponse struct {
	Result  ValidationResult `json:"result"`
	Message string           `json:"message,omitempty"`
}

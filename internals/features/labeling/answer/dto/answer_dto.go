package dto

import (
	"time"

	"github.com/google/uuid"

	answerModel "labelku_backend/internals/features/labeling/answer/model"
)

/* ===================== REQUESTS ===================== */

// AnswerValue is a pointer so an absent field is distinguishable from an
// explicit empty string. Empty means "answered with empty", absent is
// rejected.
type SubmitAnswerRequest struct {
	DatasetID   uuid.UUID  `json:"dataset_id" validate:"required"`
	QuestionID  uuid.UUID  `json:"question_id" validate:"required"`
	FileID      *uuid.UUID `json:"file_id" validate:"omitempty"`
	AnswerValue *string    `json:"answer_value" validate:"required"`
}

// FileIDOrSentinel totalizes the optional file scope for the uniqueness key.
func (r SubmitAnswerRequest) FileIDOrSentinel() uuid.UUID {
	if r.FileID == nil {
		return answerModel.NoFileID
	}
	return *r.FileID
}

/* ===================== RESPONSES ===================== */

type AnswerResponse struct {
	AnswerID           uuid.UUID  `json:"answer_id"`
	AnswerUserID       uuid.UUID  `json:"answer_user_id"`
	AnswerDatasetID    uuid.UUID  `json:"answer_dataset_id"`
	AnswerQuestionID   uuid.UUID  `json:"answer_question_id"`
	AnswerFileID       *uuid.UUID `json:"answer_file_id,omitempty"`
	AnswerSubmissionID *uuid.UUID `json:"answer_submission_id,omitempty"`
	AnswerValue        string     `json:"answer_value"`
	AnswerCreatedAt    time.Time  `json:"answer_created_at"`
	AnswerUpdatedAt    time.Time  `json:"answer_updated_at"`

	QuestionText *string `json:"question_text,omitempty"`
	FileName     *string `json:"file_name,omitempty"`
	FileURL      *string `json:"file_url,omitempty"`
}

func NewAnswerResponse(m *answerModel.AnswerModel) *AnswerResponse {
	if m == nil {
		return nil
	}
	resp := &AnswerResponse{
		AnswerID:           m.AnswerID,
		AnswerUserID:       m.AnswerUserID,
		AnswerDatasetID:    m.AnswerDatasetID,
		AnswerQuestionID:   m.AnswerQuestionID,
		AnswerFileID:       m.FileIDOrNil(),
		AnswerSubmissionID: m.AnswerSubmissionID,
		AnswerValue:        m.AnswerValue,
		AnswerCreatedAt:    m.AnswerCreatedAt,
		AnswerUpdatedAt:    m.AnswerUpdatedAt,
	}
	if m.Question != nil {
		resp.QuestionText = &m.Question.QuestionText
	}
	if m.File != nil {
		resp.FileName = &m.File.DatasetFileName
		resp.FileURL = &m.File.DatasetFileURL
	}
	return resp
}

func NewAnswerResponses(rows []answerModel.AnswerModel) []*AnswerResponse {
	out := make([]*AnswerResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewAnswerResponse(&rows[i]))
	}
	return out
}

package dto

import (
	"time"

	"github.com/google/uuid"

	answerDTO "labelku_backend/internals/features/labeling/answer/dto"
	submissionModel "labelku_backend/internals/features/labeling/submission/model"
)

/* ===================== REQUESTS ===================== */

// BatchAnswerItem keeps question_id as a raw string so a malformed or
// empty id skips the item instead of failing the whole body parse.
type BatchAnswerItem struct {
	QuestionID  string     `json:"question_id"`
	FileID      *uuid.UUID `json:"file_id"`
	AnswerValue *string    `json:"answer_value"`
}

type SubmitBatchRequest struct {
	DatasetID uuid.UUID         `json:"dataset_id" validate:"required"`
	Answers   []BatchAnswerItem `json:"answers" validate:"required,min=1"`
}

/* ===================== RESPONSES ===================== */

type BatchItemError struct {
	Index      int    `json:"index"`
	QuestionID string `json:"question_id,omitempty"`
	Reason     string `json:"reason"`
}

type BatchResponse struct {
	SubmissionID     uuid.UUID                   `json:"submission_id"`
	SubmissionStatus string                      `json:"submission_status"`
	Stored           []*answerDTO.AnswerResponse `json:"stored"`
	Errors           []BatchItemError            `json:"errors,omitempty"`
}

type SubmitterResponse struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type SubmissionWithAnswers struct {
	SubmissionID          uuid.UUID  `json:"submission_id"`
	SubmissionUserID      uuid.UUID  `json:"submission_user_id"`
	SubmissionDatasetID   uuid.UUID  `json:"submission_dataset_id"`
	SubmissionStatus      string     `json:"submission_status"`
	SubmissionStartedAt   time.Time  `json:"submission_started_at"`
	SubmissionSubmittedAt *time.Time `json:"submission_submitted_at,omitempty"`

	Submitter *SubmitterResponse          `json:"submitter,omitempty"`
	Answers   []*answerDTO.AnswerResponse `json:"answers"`
}

func NewSubmissionWithAnswers(m *submissionModel.SubmissionModel) *SubmissionWithAnswers {
	resp := &SubmissionWithAnswers{
		SubmissionID:          m.SubmissionID,
		SubmissionUserID:      m.SubmissionUserID,
		SubmissionDatasetID:   m.SubmissionDatasetID,
		SubmissionStatus:      m.SubmissionStatus,
		SubmissionStartedAt:   m.SubmissionStartedAt,
		SubmissionSubmittedAt: m.SubmissionSubmittedAt,
		Answers:               []*answerDTO.AnswerResponse{},
	}
	if m.User != nil {
		resp.Submitter = &SubmitterResponse{
			UserName:  m.User.UserName,
			UserEmail: m.User.UserEmail,
		}
	}
	return resp
}

// AggregationResponse is the admin review payload. total_answers counts
// every answer on the dataset, including ad-hoc ones that belong to no
// submission and therefore appear in no group.
type AggregationResponse struct {
	TotalSubmissions int                      `json:"total_submissions"`
	TotalAnswers     int                      `json:"total_answers"`
	Submissions      []*SubmissionWithAnswers `json:"submissions"`
}

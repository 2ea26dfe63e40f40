package dto

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	questionModel "labelku_backend/internals/features/datasets/question/model"
)

/* ===================== REQUESTS ===================== */

type CreateQuestionRequest struct {
	DatasetID    uuid.UUID      `json:"dataset_id" validate:"required"`
	QuestionText string         `json:"question_text" validate:"required"`
	AnswerType   string         `json:"answer_type" validate:"required,oneof=text single_choice multi_choice number"`
	Options      datatypes.JSON `json:"options" validate:"omitempty"`
}

func (r CreateQuestionRequest) ToModel() *questionModel.QuestionModel {
	return &questionModel.QuestionModel{
		QuestionDatasetID:  r.DatasetID,
		QuestionText:       strings.TrimSpace(r.QuestionText),
		QuestionAnswerType: r.AnswerType,
		QuestionOptions:    r.Options,
	}
}

type UpdateQuestionRequest struct {
	QuestionText *string         `json:"question_text" validate:"omitempty"`
	AnswerType   *string         `json:"answer_type" validate:"omitempty,oneof=text single_choice multi_choice number"`
	Options      *datatypes.JSON `json:"options" validate:"omitempty"`
}

func (r *UpdateQuestionRequest) ApplyToModel(m *questionModel.QuestionModel) {
	if r.QuestionText != nil {
		m.QuestionText = strings.TrimSpace(*r.QuestionText)
	}
	if r.AnswerType != nil {
		m.QuestionAnswerType = *r.AnswerType
	}
	if r.Options != nil {
		m.QuestionOptions = *r.Options
	}
}

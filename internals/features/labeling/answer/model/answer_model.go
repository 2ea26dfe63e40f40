package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionModel "labelku_backend/internals/features/datasets/question/model"
)

// NoFileID is the sentinel for answers that are not scoped to a dataset
// file. Keeping the column NOT NULL makes the single-answer uniqueness
// key total: (user, dataset, question, file) always has four values.
var NoFileID = uuid.Nil

// AnswerModel carries both answer variants: ad-hoc answers
// (AnswerSubmissionID == nil, deduplicated by the partial unique index
// below) and submission-scoped batch answers (AnswerSubmissionID set,
// historical attempts may coexist).
type AnswerModel struct {
	AnswerID           uuid.UUID  `gorm:"column:answer_id;type:uuid;primaryKey" json:"answer_id"`
	AnswerUserID       uuid.UUID  `gorm:"column:answer_user_id;type:uuid;not null;index;uniqueIndex:uq_answers_single_key,where:answer_submission_id IS NULL,priority:1" json:"answer_user_id"`
	AnswerDatasetID    uuid.UUID  `gorm:"column:answer_dataset_id;type:uuid;not null;index;uniqueIndex:uq_answers_single_key,where:answer_submission_id IS NULL,priority:2" json:"answer_dataset_id"`
	AnswerQuestionID   uuid.UUID  `gorm:"column:answer_question_id;type:uuid;not null;index;uniqueIndex:uq_answers_single_key,where:answer_submission_id IS NULL,priority:3" json:"answer_question_id"`
	AnswerFileID       uuid.UUID  `gorm:"column:answer_file_id;type:uuid;not null;uniqueIndex:uq_answers_single_key,where:answer_submission_id IS NULL,priority:4" json:"-"`
	AnswerSubmissionID *uuid.UUID `gorm:"column:answer_submission_id;type:uuid;index" json:"answer_submission_id,omitempty"`

	AnswerValue string `gorm:"column:answer_value;type:text;not null" json:"answer_value"`

	AnswerCreatedAt time.Time `gorm:"column:answer_created_at;autoCreateTime" json:"answer_created_at"`
	AnswerUpdatedAt time.Time `gorm:"column:answer_updated_at;autoUpdateTime" json:"answer_updated_at"`

	Question *questionModel.QuestionModel   `gorm:"foreignKey:AnswerQuestionID;references:QuestionID" json:"-"`
	File     *datasetModel.DatasetFileModel `gorm:"foreignKey:AnswerFileID;references:DatasetFileID" json:"-"`
}

func (AnswerModel) TableName() string { return "answers" }

func (m *AnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnswerID == uuid.Nil {
		m.AnswerID = uuid.New()
	}
	return nil
}

// FileIDOrNil maps the sentinel back to "no file" for responses.
func (m *AnswerModel) FileIDOrNil() *uuid.UUID {
	if m.AnswerFileID == NoFileID {
		return nil
	}
	id := m.AnswerFileID
	return &id
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer types a question may declare. The stored answer stays a text
// encoding; the type drives validation at the submit boundary.
const (
	AnswerTypeText         = "text"
	AnswerTypeSingleChoice = "single_choice"
	AnswerTypeMultiChoice  = "multi_choice"
	AnswerTypeNumber       = "number"
)

type QuestionModel struct {
	QuestionID        uuid.UUID `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionDatasetID uuid.UUID `gorm:"column:question_dataset_id;type:uuid;not null;index" json:"question_dataset_id"`

	QuestionText       string         `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionAnswerType string         `gorm:"column:question_answer_type;type:varchar(20);not null" json:"question_answer_type"`
	QuestionOptions    datatypes.JSON `gorm:"column:question_options;type:jsonb" json:"question_options,omitempty"`

	QuestionCreatedAt time.Time `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
}

func (QuestionModel) TableName() string { return "questions" }

func (m *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}

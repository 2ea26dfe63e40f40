package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionModel "labelku_backend/internals/features/datasets/question/model"
)

/* ===================== REQUESTS ===================== */

// Questions may be supplied inline when creating a dataset.
type InlineQuestionRequest struct {
	Text       string         `json:"text" validate:"required"`
	AnswerType string         `json:"answerType" validate:"required,oneof=text single_choice multi_choice number"`
	Options    datatypes.JSON `json:"options" validate:"omitempty"`
}

type CreateDatasetRequest struct {
	Name        string                  `json:"name" validate:"required,min=2,max=150"`
	Description *string                 `json:"description" validate:"omitempty"`
	FileType    string                  `json:"file_type" validate:"required,max=50"`
	IsPublished *bool                   `json:"is_published" validate:"omitempty"`
	Questions   []InlineQuestionRequest `json:"questions" validate:"omitempty,dive"`
}

func (r CreateDatasetRequest) ToModel(createdBy uuid.UUID) *datasetModel.DatasetModel {
	m := &datasetModel.DatasetModel{
		DatasetName:      strings.TrimSpace(r.Name),
		DatasetFileType:  strings.TrimSpace(r.FileType),
		DatasetCreatedBy: createdBy,
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d != "" {
			m.DatasetDescription = &d
		}
	}
	if r.IsPublished != nil {
		m.DatasetIsPublished = *r.IsPublished
	}
	return m
}

// Update: everything optional (partial update)
type UpdateDatasetRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string `json:"description" validate:"omitempty"`
	FileType    *string `json:"file_type" validate:"omitempty,max=50"`
	IsPublished *bool   `json:"is_published" validate:"omitempty"`
}

// ApplyToModel sets only the fields that were sent.
func (r *UpdateDatasetRequest) ApplyToModel(m *datasetModel.DatasetModel) {
	if r.Name != nil {
		m.DatasetName = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			m.DatasetDescription = nil
		} else {
			m.DatasetDescription = &d
		}
	}
	if r.FileType != nil {
		m.DatasetFileType = strings.TrimSpace(*r.FileType)
	}
	if r.IsPublished != nil {
		m.DatasetIsPublished = *r.IsPublished
	}
}

/* ===================== RESPONSES ===================== */

type CreatorResponse struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type DatasetResponse struct {
	DatasetID          uuid.UUID `json:"dataset_id"`
	DatasetName        string    `json:"dataset_name"`
	DatasetDescription *string   `json:"dataset_description,omitempty"`
	DatasetFileType    string    `json:"dataset_file_type"`
	DatasetIsPublished bool      `json:"dataset_is_published"`
	DatasetCreatedBy   uuid.UUID `json:"dataset_created_by"`
	DatasetCreatedAt   time.Time `json:"dataset_created_at"`
	DatasetUpdatedAt   time.Time `json:"dataset_updated_at"`

	Creator   *CreatorResponse                `json:"creator,omitempty"`
	Questions []questionModel.QuestionModel   `json:"questions,omitempty"`
	Files     []datasetModel.DatasetFileModel `json:"files,omitempty"`
}

func NewDatasetResponse(m *datasetModel.DatasetModel) *DatasetResponse {
	if m == nil {
		return nil
	}
	resp := &DatasetResponse{
		DatasetID:          m.DatasetID,
		DatasetName:        m.DatasetName,
		DatasetDescription: m.DatasetDescription,
		DatasetFileType:    m.DatasetFileType,
		DatasetIsPublished: m.DatasetIsPublished,
		DatasetCreatedBy:   m.DatasetCreatedBy,
		DatasetCreatedAt:   m.DatasetCreatedAt,
		DatasetUpdatedAt:   m.DatasetUpdatedAt,
		Questions:          m.Questions,
		Files:              m.Files,
	}
	if m.Creator != nil {
		resp.Creator = &CreatorResponse{
			UserName:  m.Creator.UserName,
			UserEmail: m.Creator.UserEmail,
		}
	}
	return resp
}

type UploadFileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type UploadFilesResponse struct {
	Files  []datasetModel.DatasetFileModel `json:"files"`
	Errors []UploadFileError               `json:"errors,omitempty"`
}

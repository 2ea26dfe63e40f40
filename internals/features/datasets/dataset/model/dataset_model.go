package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	questionModel "labelku_backend/internals/features/datasets/question/model"
	userModel "labelku_backend/internals/features/users/user/model"
)

type DatasetModel struct {
	DatasetID          uuid.UUID `gorm:"column:dataset_id;type:uuid;primaryKey" json:"dataset_id"`
	DatasetName        string    `gorm:"column:dataset_name;type:varchar(150);not null" json:"dataset_name"`
	DatasetDescription *string   `gorm:"column:dataset_description;type:text" json:"dataset_description,omitempty"`
	DatasetFileType    string    `gorm:"column:dataset_file_type;type:varchar(50);not null" json:"dataset_file_type"`
	DatasetIsPublished bool      `gorm:"column:dataset_is_published;not null;default:false" json:"dataset_is_published"`
	DatasetCreatedBy   uuid.UUID `gorm:"column:dataset_created_by;type:uuid;not null;index" json:"dataset_created_by"`

	DatasetCreatedAt time.Time `gorm:"column:dataset_created_at;autoCreateTime" json:"dataset_created_at"`
	DatasetUpdatedAt time.Time `gorm:"column:dataset_updated_at;autoUpdateTime" json:"dataset_updated_at"`

	Creator   *userModel.UserModel          `gorm:"foreignKey:DatasetCreatedBy;references:UserID" json:"-"`
	Questions []questionModel.QuestionModel `gorm:"foreignKey:QuestionDatasetID;references:DatasetID" json:"-"`
	Files     []DatasetFileModel            `gorm:"foreignKey:DatasetFileDatasetID;references:DatasetID" json:"-"`
}

func (DatasetModel) TableName() string { return "datasets" }

func (m *DatasetModel) BeforeCreate(tx *gorm.DB) error {
	if m.DatasetID == uuid.Nil {
		m.DatasetID = uuid.New()
	}
	return nil
}

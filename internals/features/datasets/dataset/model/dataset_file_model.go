package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DatasetFileModel struct {
	DatasetFileID        uuid.UUID `gorm:"column:dataset_file_id;type:uuid;primaryKey" json:"dataset_file_id"`
	DatasetFileDatasetID uuid.UUID `gorm:"column:dataset_file_dataset_id;type:uuid;not null;index" json:"dataset_file_dataset_id"`

	DatasetFileName         string  `gorm:"column:dataset_file_name;type:varchar(255);not null" json:"dataset_file_name"`
	DatasetFilePath         string  `gorm:"column:dataset_file_path;type:text;not null" json:"dataset_file_path"`
	DatasetFileURL          string  `gorm:"column:dataset_file_url;type:text;not null" json:"dataset_file_url"`
	DatasetFileThumbnailURL *string `gorm:"column:dataset_file_thumbnail_url;type:text" json:"dataset_file_thumbnail_url,omitempty"`
	DatasetFileType         string  `gorm:"column:dataset_file_type;type:varchar(100);not null" json:"dataset_file_type"`
	DatasetFileSize         int64   `gorm:"column:dataset_file_size;not null;default:0" json:"dataset_file_size"`

	DatasetFileCreatedAt time.Time `gorm:"column:dataset_file_created_at;autoCreateTime" json:"dataset_file_created_at"`
}

func (DatasetFileModel) TableName() string { return "dataset_files" }

func (m *DatasetFileModel) BeforeCreate(tx *gorm.DB) error {
	if m.DatasetFileID == uuid.Nil {
		m.DatasetFileID = uuid.New()
	}
	return nil
}

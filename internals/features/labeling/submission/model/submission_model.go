package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "labelku_backend/internals/features/users/user/model"
)

// Submission lifecycle. in_progress is the only initial state; completed
// and failed are terminal.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type SubmissionModel struct {
	SubmissionID        uuid.UUID `gorm:"column:submission_id;type:uuid;primaryKey" json:"submission_id"`
	SubmissionUserID    uuid.UUID `gorm:"column:submission_user_id;type:uuid;not null;index" json:"submission_user_id"`
	SubmissionDatasetID uuid.UUID `gorm:"column:submission_dataset_id;type:uuid;not null;index" json:"submission_dataset_id"`

	SubmissionStatus      string     `gorm:"column:submission_status;type:varchar(20);not null;default:in_progress" json:"submission_status"`
	SubmissionStartedAt   time.Time  `gorm:"column:submission_started_at;not null" json:"submission_started_at"`
	SubmissionSubmittedAt *time.Time `gorm:"column:submission_submitted_at" json:"submission_submitted_at,omitempty"`

	User *userModel.UserModel `gorm:"foreignKey:SubmissionUserID;references:UserID" json:"-"`
}

func (SubmissionModel) TableName() string { return "submissions" }

func (m *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}

package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	submissionDTO "labelku_backend/internals/features/labeling/submission/dto"
	submissionModel "labelku_backend/internals/features/labeling/submission/model"
)

type SubmissionService struct {
	DB *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{DB: db}
}

// Open creates a fresh in_progress submission. Re-attempts always get a
// new row, prior submissions for the same dataset are untouched.
func (s *SubmissionService) Open(ctx context.Context, userID, datasetID uuid.UUID) (*submissionModel.SubmissionModel, error) {
	m := &submissionModel.SubmissionModel{
		SubmissionUserID:    userID,
		SubmissionDatasetID: datasetID,
		SubmissionStatus:    submissionModel.StatusInProgress,
		SubmissionStartedAt: time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Finalize is a conditional update: only an in_progress submission moves
// to a terminal state, so a retried call is a no-op rather than a
// corruption.
func (s *SubmissionService) Finalize(ctx context.Context, submissionID uuid.UUID, status string) error {
	now := time.Now()
	return s.DB.WithContext(ctx).
		Model(&submissionModel.SubmissionModel{}).
		Where("submission_id = ? AND submission_status = ?", submissionID, submissionModel.StatusInProgress).
		Updates(map[string]interface{}{
			"submission_status":       status,
			"submission_submitted_at": now,
		}).Error
}

// BatchResult is what the ingestion pipeline hands back to the handler.
type BatchResult struct {
	Submission *submissionModel.SubmissionModel
	Stored     []answerModel.AnswerModel
	Errors     []submissionDTO.BatchItemError
}

// IngestBatch stores many answers under one new submission.
//
// The submission is opened before any item is touched; if that fails the
// whole call fails and nothing exists. Items missing a parseable
// question_id or a non-empty answer_value are skipped silently. Each
// surviving item is inserted in isolation: a failure lands in the error
// list and processing continues. The submission is finalized completed
// once every item has been resolved, whatever the error count.
func (s *SubmissionService) IngestBatch(ctx context.Context, userID, datasetID uuid.UUID, items []submissionDTO.BatchAnswerItem) (*BatchResult, error) {
	sub, err := s.Open(ctx, userID, datasetID)
	if err != nil {
		return nil, err
	}

	res := &BatchResult{Submission: sub, Stored: make([]answerModel.AnswerModel, 0, len(items))}

	for i, item := range items {
		questionID, err := uuid.Parse(strings.TrimSpace(item.QuestionID))
		if err != nil || questionID == uuid.Nil {
			continue
		}
		if item.AnswerValue == nil || *item.AnswerValue == "" {
			continue
		}

		var count int64
		if err := s.DB.WithContext(ctx).
			Model(&questionModel.QuestionModel{}).
			Where("question_id = ? AND question_dataset_id = ?", questionID, datasetID).
			Count(&count).Error; err != nil {
			res.Errors = append(res.Errors, submissionDTO.BatchItemError{
				Index: i, QuestionID: item.QuestionID, Reason: err.Error(),
			})
			continue
		}
		if count == 0 {
			res.Errors = append(res.Errors, submissionDTO.BatchItemError{
				Index: i, QuestionID: item.QuestionID, Reason: "question not found in this dataset",
			})
			continue
		}

		fileID := answerModel.NoFileID
		if item.FileID != nil {
			fileID = *item.FileID
		}
		row := answerModel.AnswerModel{
			AnswerUserID:       userID,
			AnswerDatasetID:    datasetID,
			AnswerQuestionID:   questionID,
			AnswerFileID:       fileID,
			AnswerSubmissionID: &sub.SubmissionID,
			AnswerValue:        *item.AnswerValue,
		}
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			res.Errors = append(res.Errors, submissionDTO.BatchItemError{
				Index: i, QuestionID: item.QuestionID, Reason: err.Error(),
			})
			continue
		}
		res.Stored = append(res.Stored, row)
	}

	if err := s.Finalize(ctx, sub.SubmissionID, submissionModel.StatusCompleted); err != nil {
		log.Printf("[ERROR] failed to finalize submission %s: %v", sub.SubmissionID, err)
	} else {
		sub.SubmissionStatus = submissionModel.StatusCompleted
	}

	return res, nil
}

package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	answerDTO "labelku_backend/internals/features/labeling/answer/dto"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	submissionDTO "labelku_backend/internals/features/labeling/submission/dto"
	submissionModel "labelku_backend/internals/features/labeling/submission/model"
	submissionService "labelku_backend/internals/features/labeling/submission/service"
	helper "labelku_backend/internals/helpers"
	helperAuth "labelku_backend/internals/helpers/auth"
)

type SubmissionController struct {
	DB      *gorm.DB
	Service *submissionService.SubmissionService
}

func NewSubmissionController(db *gorm.DB) *SubmissionController {
	return &SubmissionController{DB: db, Service: submissionService.NewSubmissionService(db)}
}

var validateSubmission = validator.New()

// POST /answers/batch
func (h *SubmissionController) SubmitBatch(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req submissionDTO.SubmitBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateSubmission.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var dataset datasetModel.DatasetModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("dataset_id = ?", req.DatasetID).
		First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Dataset not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dataset")
	}
	if err := helperAuth.CanReadDataset(actor, dataset.DatasetIsPublished); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	res, err := h.Service.IngestBatch(c.UserContext(), actor.ID, req.DatasetID, req.Answers)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to open submission")
	}

	return helper.JsonCreated(c, "Batch processed", submissionDTO.BatchResponse{
		SubmissionID:     res.Submission.SubmissionID,
		SubmissionStatus: res.Submission.SubmissionStatus,
		Stored:           answerDTO.NewAnswerResponses(res.Stored),
		Errors:           res.Errors,
	})
}

// GET /datasets/:id/answers
// Admin review: submissions newest first, each carrying its own answers.
// Ad-hoc answers (no submission) are counted in total_answers but belong
// to no group.
func (h *SubmissionController) ListByDataset(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	if err := helperAuth.CanManageDatasets(actor); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	datasetID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var submissions []submissionModel.SubmissionModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("User").
		Where("submission_dataset_id = ?", datasetID).
		Order("submission_started_at DESC").
		Find(&submissions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list submissions")
	}

	var answers []answerModel.AnswerModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("Question").
		Where("answer_dataset_id = ?", datasetID).
		Order("answer_created_at DESC").
		Find(&answers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list answers")
	}

	groups := make([]*submissionDTO.SubmissionWithAnswers, 0, len(submissions))
	byID := make(map[uuid.UUID]*submissionDTO.SubmissionWithAnswers, len(submissions))
	for i := range submissions {
		g := submissionDTO.NewSubmissionWithAnswers(&submissions[i])
		groups = append(groups, g)
		byID[g.SubmissionID] = g
	}
	for i := range answers {
		if answers[i].AnswerSubmissionID == nil {
			continue
		}
		if g, ok := byID[*answers[i].AnswerSubmissionID]; ok {
			g.Answers = append(g.Answers, answerDTO.NewAnswerResponse(&answers[i]))
		}
	}

	return helper.JsonOK(c, "OK", submissionDTO.AggregationResponse{
		TotalSubmissions: len(submissions),
		TotalAnswers:     len(answers),
		Submissions:      groups,
	})
}

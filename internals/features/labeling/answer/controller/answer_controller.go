package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerDTO "labelku_backend/internals/features/labeling/answer/dto"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	helper "labelku_backend/internals/helpers"
	helperAuth "labelku_backend/internals/helpers/auth"
)

type AnswerController struct {
	DB *gorm.DB
}

func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{DB: db}
}

var validateAnswer = validator.New()

// POST /answers
// Upsert keyed by (user, dataset, question, file). The key is enforced by
// a partial unique index over non-submission answers, so concurrent
// submits for the same key collapse into one row instead of racing a
// read-then-branch.
func (h *AnswerController) Submit(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req answerDTO.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateAnswer.Struct(req); err != nil {
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

	var question questionModel.QuestionModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("question_id = ? AND question_dataset_id = ?", req.QuestionID, req.DatasetID).
		First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Question not found in this dataset")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch question")
	}

	if err := answerDTO.ValidateAnswerValue(&question, *req.AnswerValue); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	row := answerModel.AnswerModel{
		AnswerUserID:     actor.ID,
		AnswerDatasetID:  req.DatasetID,
		AnswerQuestionID: req.QuestionID,
		AnswerFileID:     req.FileIDOrSentinel(),
		AnswerValue:      *req.AnswerValue,
	}

	err = h.DB.WithContext(c.UserContext()).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "answer_user_id"},
			{Name: "answer_dataset_id"},
			{Name: "answer_question_id"},
			{Name: "answer_file_id"},
		},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "answer_submission_id IS NULL"},
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"answer_value":      *req.AnswerValue,
			"answer_updated_at": time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return helper.JsonError(c, fiber.StatusConflict, "Answer already exists for this question")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save answer")
	}

	// On conflict the insert candidate's generated ID is not the surviving
	// row's; re-read by key to return the authoritative record.
	var saved answerModel.AnswerModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("answer_user_id = ? AND answer_dataset_id = ? AND answer_question_id = ? AND answer_file_id = ? AND answer_submission_id IS NULL",
			actor.ID, req.DatasetID, req.QuestionID, req.FileIDOrSentinel()).
		First(&saved).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load saved answer")
	}

	return helper.JsonCreated(c, "Answer saved", answerDTO.NewAnswerResponse(&saved))
}

// GET /answers/my-answers/:datasetId
func (h *AnswerController) ListMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	datasetID, err := uuid.Parse(strings.TrimSpace(c.Params("datasetId")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var rows []answerModel.AnswerModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("Question").
		Preload("File").
		Where("answer_user_id = ? AND answer_dataset_id = ?", actor.ID, datasetID).
		Order("answer_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list answers")
	}

	return helper.JsonOK(c, "OK", answerDTO.NewAnswerResponses(rows))
}

// DELETE /answers/:id
func (h *AnswerController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid answer ID")
	}

	var row answerModel.AnswerModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("answer_id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Answer not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch answer")
	}

	if err := helperAuth.CanMutateAnswer(actor, row.AnswerUserID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	if err := h.DB.WithContext(c.UserContext()).
		Where("answer_id = ?", id).
		Delete(&answerModel.AnswerModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete answer")
	}

	return helper.JsonDeleted(c, "Answer deleted", fiber.Map{"answer_id": id})
}

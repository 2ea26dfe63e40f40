package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionDTO "labelku_backend/internals/features/datasets/question/dto"
	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	helper "labelku_backend/internals/helpers"
)

type QuestionController struct {
	DB *gorm.DB
}

func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{DB: db}
}

var validateQuestion = validator.New()

// GET /questions/dataset/:datasetId
func (h *QuestionController) ListByDataset(c *fiber.Ctx) error {
	datasetID, err := uuid.Parse(strings.TrimSpace(c.Params("datasetId")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var rows []questionModel.QuestionModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("question_dataset_id = ?", datasetID).
		Order("question_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list questions")
	}

	return helper.JsonOK(c, "OK", rows)
}

// POST /questions
func (h *QuestionController) Create(c *fiber.Ctx) error {
	var req questionDTO.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateQuestion.Struct(req); err != nil {
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

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create question")
	}

	return helper.JsonCreated(c, "Question created", m)
}

// PUT /questions/:id
func (h *QuestionController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid question ID")
	}

	var existing questionModel.QuestionModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("question_id = ?", id).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Question not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch question")
	}

	var req questionDTO.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateQuestion.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	req.ApplyToModel(&existing)
	if err := h.DB.WithContext(c.UserContext()).Save(&existing).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update question")
	}

	return helper.JsonUpdated(c, "Question updated", existing)
}

// DELETE /questions/:id
// Answers pointing at the question go first, inside one transaction.
func (h *QuestionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid question ID")
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_question_id = ?", id).Delete(&answerModel.AnswerModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("question_id = ?", id).Delete(&questionModel.QuestionModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Question not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete question")
	}

	return helper.JsonDeleted(c, "Question deleted", fiber.Map{"question_id": id})
}

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	datasetDTO "labelku_backend/internals/features/datasets/dataset/dto"
	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	helper "labelku_backend/internals/helpers"
	helperAuth "labelku_backend/internals/helpers/auth"
)

type DatasetController struct {
	DB   *gorm.DB
	Blob BlobStorage
}

func NewDatasetController(db *gorm.DB, blob BlobStorage) *DatasetController {
	return &DatasetController{DB: db, Blob: blob}
}

var validateDataset = validator.New()

/* ================= Handlers ================= */

// GET /datasets
func (h *DatasetController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	limit := c.QueryInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	tx := h.DB.WithContext(c.UserContext()).Model(&datasetModel.DatasetModel{})
	if !actor.IsAdmin() {
		tx = tx.Where("dataset_is_published = ?", true)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count datasets")
	}

	var rows []datasetModel.DatasetModel
	if err := tx.
		Preload("Creator").
		Preload("Questions").
		Order("dataset_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list datasets")
	}

	resp := make([]*datasetDTO.DatasetResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, datasetDTO.NewDatasetResponse(&rows[i]))
	}
	return helper.JsonList(c, "OK", resp, helper.Pagination{Limit: limit, Offset: offset, Total: total})
}

// GET /datasets/:id
func (h *DatasetController) GetByID(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var m datasetModel.DatasetModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("Creator").
		Preload("Questions").
		Preload("Files").
		Where("dataset_id = ?", id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Dataset not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dataset")
	}

	if err := helperAuth.CanReadDataset(actor, m.DatasetIsPublished); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	return helper.JsonOK(c, "OK", datasetDTO.NewDatasetResponse(&m))
}

// POST /datasets
func (h *DatasetController) Create(c *fiber.Ctx) error {
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

	var req datasetDTO.CreateDatasetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateDataset.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	m := req.ToModel(actor.ID)
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create dataset")
	}

	// Inline questions are best-effort: the dataset itself is already
	// persisted, a question failure is logged and does not roll it back.
	if len(req.Questions) > 0 {
		questions := make([]questionModel.QuestionModel, 0, len(req.Questions))
		for _, q := range req.Questions {
			questions = append(questions, questionModel.QuestionModel{
				QuestionDatasetID:  m.DatasetID,
				QuestionText:       strings.TrimSpace(q.Text),
				QuestionAnswerType: q.AnswerType,
				QuestionOptions:    q.Options,
			})
		}
		if err := h.DB.WithContext(c.UserContext()).Create(&questions).Error; err != nil {
			log.Printf("[ERROR] failed to create inline questions: %v", err)
		} else {
			m.Questions = questions
		}
	}

	return helper.JsonCreated(c, "Dataset created", datasetDTO.NewDatasetResponse(m))
}

// PUT /datasets/:id
func (h *DatasetController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var existing datasetModel.DatasetModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("dataset_id = ?", id).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Dataset not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dataset")
	}

	var req datasetDTO.UpdateDatasetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateDataset.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	req.ApplyToModel(&existing)
	if err := h.DB.WithContext(c.UserContext()).Save(&existing).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update dataset")
	}

	return helper.JsonUpdated(c, "Dataset updated", datasetDTO.NewDatasetResponse(&existing))
}

// DELETE /datasets/:id
// Cascades: answers, questions, file records (DB transaction), then the
// dataset row. Blob objects are removed best-effort after commit.
func (h *DatasetController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	var fileURLs []string
	if err := h.DB.WithContext(c.UserContext()).
		Model(&datasetModel.DatasetFileModel{}).
		Where("dataset_file_dataset_id = ?", id).
		Pluck("dataset_file_url", &fileURLs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to collect dataset files")
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_dataset_id = ?", id).Delete(&answerModel.AnswerModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_dataset_id = ?", id).Delete(&questionModel.QuestionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dataset_file_dataset_id = ?", id).Delete(&datasetModel.DatasetFileModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("dataset_id = ?", id).Delete(&datasetModel.DatasetModel{})
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
			return helper.JsonError(c, fiber.StatusNotFound, "Dataset not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete dataset")
	}

	for _, u := range fileURLs {
		if err := h.Blob.DeleteByPublicURL(c.UserContext(), u); err != nil {
			log.Printf("[WARN] blob delete failed for %s: %v", u, err)
		}
	}

	return helper.JsonDeleted(c, "Dataset deleted", fiber.Map{"dataset_id": id})
}

package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	datasetDTO "labelku_backend/internals/features/datasets/dataset/dto"
	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	helper "labelku_backend/internals/helpers"
	helperOSS "labelku_backend/internals/helpers/oss"
)

// BlobStorage is the slice of the OSS service the dataset feature needs.
// Tests swap in a double.
type BlobStorage interface {
	UploadFromFormFileToDir(ctx context.Context, dir string, fh *multipart.FileHeader) (key, contentType, publicURL string, err error)
	UploadThumbnailWebP(ctx context.Context, dir string, fh *multipart.FileHeader, contentType string) (string, error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

const maxFilesPerUpload = 50

// POST /datasets/:id/files
// Per-file tolerance: one bad file is reported in errors, the rest are
// still stored.
func (h *DatasetController) UploadFiles(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No files uploaded")
	}
	if len(files) > maxFilesPerUpload {
		return helper.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Too many files (max %d)", maxFilesPerUpload))
	}

	var dataset datasetModel.DatasetModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("dataset_id = ?", id).
		First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Dataset not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dataset")
	}

	dir := "datasets/" + id.String()
	stored := make([]datasetModel.DatasetFileModel, 0, len(files))
	var uploadErrors []datasetDTO.UploadFileError

	for _, fh := range files {
		if fh.Size > helperOSS.MaxUploadSize {
			uploadErrors = append(uploadErrors, datasetDTO.UploadFileError{
				File:  fh.Filename,
				Error: "file too large",
			})
			continue
		}

		key, ct, url, err := h.Blob.UploadFromFormFileToDir(c.UserContext(), dir, fh)
		if err != nil {
			log.Printf("[ERROR] upload failed for %s: %v", fh.Filename, err)
			uploadErrors = append(uploadErrors, datasetDTO.UploadFileError{
				File:  fh.Filename,
				Error: err.Error(),
			})
			continue
		}

		rec := datasetModel.DatasetFileModel{
			DatasetFileDatasetID: id,
			DatasetFileName:      fh.Filename,
			DatasetFilePath:      key,
			DatasetFileURL:       url,
			DatasetFileType:      ct,
			DatasetFileSize:      fh.Size,
		}

		if helperOSS.IsThumbnailable(ct) {
			if thumbURL, err := h.Blob.UploadThumbnailWebP(c.UserContext(), dir+"/thumbs", fh, ct); err != nil {
				log.Printf("[WARN] thumbnail failed for %s: %v", fh.Filename, err)
			} else {
				rec.DatasetFileThumbnailURL = &thumbURL
			}
		}

		if err := h.DB.WithContext(c.UserContext()).Create(&rec).Error; err != nil {
			log.Printf("[ERROR] file record insert failed for %s: %v", fh.Filename, err)
			uploadErrors = append(uploadErrors, datasetDTO.UploadFileError{
				File:  fh.Filename,
				Error: err.Error(),
			})
			continue
		}
		stored = append(stored, rec)
	}

	return helper.JsonOK(c,
		fmt.Sprintf("Uploaded %d/%d files", len(stored), len(files)),
		datasetDTO.UploadFilesResponse{Files: stored, Errors: uploadErrors})
}

// DELETE /datasets/:id/files/:fileId
// Blob removal is best-effort; the DB record is authoritative.
func (h *DatasetController) DeleteFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid dataset ID")
	}
	fileID, err := uuid.Parse(strings.TrimSpace(c.Params("fileId")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid file ID")
	}

	var file datasetModel.DatasetFileModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("dataset_file_id = ? AND dataset_file_dataset_id = ?", fileID, id).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "File not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch file")
	}

	if err := h.Blob.DeleteByPublicURL(c.UserContext(), file.DatasetFileURL); err != nil {
		log.Printf("[WARN] blob delete failed for %s: %v", file.DatasetFileURL, err)
	}
	if file.DatasetFileThumbnailURL != nil {
		if err := h.Blob.DeleteByPublicURL(c.UserContext(), *file.DatasetFileThumbnailURL); err != nil {
			log.Printf("[WARN] thumbnail delete failed: %v", err)
		}
	}

	if err := h.DB.WithContext(c.UserContext()).
		Where("dataset_file_id = ?", fileID).
		Delete(&datasetModel.DatasetFileModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete file")
	}

	return helper.JsonDeleted(c, "File deleted", fiber.Map{"dataset_file_id": fileID})
}

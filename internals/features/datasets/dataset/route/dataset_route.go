package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	datasetController "labelku_backend/internals/features/datasets/dataset/controller"
	submissionController "labelku_backend/internals/features/labeling/submission/controller"
	helperAuth "labelku_backend/internals/helpers/auth"
	authMiddleware "labelku_backend/internals/middlewares/auth"
)

func DatasetRoutes(app *fiber.App, db *gorm.DB, blob datasetController.BlobStorage) {
	ctrl := datasetController.NewDatasetController(db, blob)
	subCtrl := submissionController.NewSubmissionController(db)

	// Any authenticated user; visibility is filtered per role inside.
	user := app.Group("/api/datasets", authMiddleware.AuthMiddleware(db))
	user.Get("/", ctrl.List)
	user.Get("/:id", ctrl.GetByID)

	admin := app.Group("/api/datasets",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles("Admin role required", helperAuth.RoleAdmin),
	)
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)
	admin.Post("/:id/files", ctrl.UploadFiles)
	admin.Delete("/:id/files/:fileId", ctrl.DeleteFile)
	admin.Get("/:id/answers", subCtrl.ListByDataset)
}

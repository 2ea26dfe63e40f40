package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	datasetController "labelku_backend/internals/features/datasets/dataset/controller"
	datasetRoute "labelku_backend/internals/features/datasets/dataset/route"
	questionRoute "labelku_backend/internals/features/datasets/question/route"
)

func DatasetRoutes(app *fiber.App, db *gorm.DB, blob datasetController.BlobStorage) {
	datasetRoute.DatasetRoutes(app, db, blob)
	questionRoute.QuestionRoutes(app, db)
}

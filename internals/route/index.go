package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	datasetController "labelku_backend/internals/features/datasets/dataset/controller"
	routeDetails "labelku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, blob datasetController.BlobStorage) {
	startTime = time.Now()

	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Setting up DatasetRoutes...")
	routeDetails.DatasetRoutes(app, db, blob)

	log.Println("[INFO] Setting up AnswerRoutes...")
	routeDetails.AnswerRoutes(app, db)
}

package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	answerController "labelku_backend/internals/features/labeling/answer/controller"
	submissionController "labelku_backend/internals/features/labeling/submission/controller"
	authMiddleware "labelku_backend/internals/middlewares/auth"
)

func AnswerRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := answerController.NewAnswerController(db)
	subCtrl := submissionController.NewSubmissionController(db)

	answers := app.Group("/api/answers", authMiddleware.AuthMiddleware(db))
	answers.Post("/", ctrl.Submit)
	answers.Post("/batch", subCtrl.SubmitBatch)
	answers.Get("/my-answers/:datasetId", ctrl.ListMine)
	answers.Delete("/:id", ctrl.Delete)
}

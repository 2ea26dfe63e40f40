package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	questionController "labelku_backend/internals/features/datasets/question/controller"
	helperAuth "labelku_backend/internals/helpers/auth"
	authMiddleware "labelku_backend/internals/middlewares/auth"
)

func QuestionRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := questionController.NewQuestionController(db)

	user := app.Group("/api/questions", authMiddleware.AuthMiddleware(db))
	user.Get("/dataset/:datasetId", ctrl.ListByDataset)

	admin := app.Group("/api/questions",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles("Admin role required", helperAuth.RoleAdmin),
	)
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)
}

package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	answerRoute "labelku_backend/internals/features/labeling/answer/route"
)

func AnswerRoutes(app *fiber.App, db *gorm.DB) {
	answerRoute.AnswerRoutes(app, db)
}

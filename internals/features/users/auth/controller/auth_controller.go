package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labelku_backend/internals/configs"
	authDTO "labelku_backend/internals/features/users/auth/dto"
	authService "labelku_backend/internals/features/users/auth/service"
	userModel "labelku_backend/internals/features/users/user/model"
	helper "labelku_backend/internals/helpers"
	helperAuth "labelku_backend/internals/helpers/auth"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

var validateAuth = validator.New()

// POST /auth/register
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	// only user/admin, anything else collapses to user
	role := helperAuth.RoleUser
	if req.Role == helperAuth.RoleAdmin {
		role = helperAuth.RoleAdmin
	}

	var existing userModel.UserModel
	err := h.DB.WithContext(c.UserContext()).
		Where("user_email = ?", req.Email).
		First(&existing).Error
	if err == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Email already in use")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check existing user")
	}

	hashed, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := userModel.UserModel{
		UserName:     req.UserName,
		UserEmail:    req.Email,
		UserPassword: hashed,
		UserRole:     role,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
	}

	token, err := authService.CreateAccessToken(user.UserID, user.UserRole)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return helper.JsonCreated(c, "Registered successfully", authDTO.AuthResponse{
		Token: token,
		User:  authDTO.NewUserResponse(&user),
	})
}

// POST /auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var user userModel.UserModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("user_email = ?", req.Email).
		First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Wrong email or password")
	}

	if err := authService.CheckPasswordHash(user.UserPassword, req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Wrong email or password")
	}

	token, err := authService.CreateAccessToken(user.UserID, user.UserRole)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return helper.JsonOK(c, "Logged in successfully", authDTO.AuthResponse{
		Token: token,
		User:  authDTO.NewUserResponse(&user),
	})
}

// POST /auth/google
// Sign-in with a Google ID token; first sign-in creates the account.
func (h *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validateAuth.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	if configs.GoogleClientID == "" {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Google sign-in is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID token")
	}
	claims, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID token")
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" || claims.Sub == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Google token has no identity")
	}

	var user userModel.UserModel
	err = h.DB.WithContext(c.UserContext()).
		Where("user_google_sub = ? OR user_email = ?", claims.Sub, email).
		First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(claims.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		sub := claims.Sub
		user = userModel.UserModel{
			UserName:      name,
			UserEmail:     email,
			UserPassword:  "-", // no local password for Google accounts
			UserRole:      helperAuth.RoleUser,
			UserGoogleSub: &sub,
		}
		if err := h.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to look up user")
	default:
		if user.UserGoogleSub == nil {
			sub := claims.Sub
			if err := h.DB.WithContext(c.UserContext()).
				Model(&user).
				Update("user_google_sub", &sub).Error; err != nil {
				log.Printf("[WARN] failed to link google sub: %v", err)
			}
		}
	}

	token, err := authService.CreateAccessToken(user.UserID, user.UserRole)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return helper.JsonOK(c, "Logged in successfully", authDTO.AuthResponse{
		Token: token,
		User:  authDTO.NewUserResponse(&user),
	})
}

// GET /auth/me
func (h *AuthController) Me(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var user userModel.UserModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("user_id = ?", actor.ID).
		First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	return helper.JsonOK(c, "OK", authDTO.NewUserResponse(&user))
}

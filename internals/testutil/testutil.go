package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"labelku_backend/internals/configs"
	datasetController "labelku_backend/internals/features/datasets/dataset/controller"
	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	submissionModel "labelku_backend/internals/features/labeling/submission/model"
	authService "labelku_backend/internals/features/users/auth/service"
	userModel "labelku_backend/internals/features/users/user/model"
	routes "labelku_backend/internals/route"
)

func init() {
	configs.JWTSecret = "test-secret"
}

// OpenTestDB gives each test its own in-memory sqlite database with the
// full schema migrated. Foreign key creation is disabled so the no-file
// sentinel on answers is accepted, matching the production schema which
// declares no constraint on that column.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&datasetModel.DatasetModel{},
		&datasetModel.DatasetFileModel{},
		&questionModel.QuestionModel{},
		&submissionModel.SubmissionModel{},
		&answerModel.AnswerModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// StubBlob satisfies the dataset feature's blob interface without any
// network. Uploads are remembered so tests can assert on deletions.
type StubBlob struct {
	Uploaded []string
	Deleted  []string
	FailNext bool
}

func (s *StubBlob) UploadFromFormFileToDir(_ context.Context, dir string, fh *multipart.FileHeader) (string, string, string, error) {
	if s.FailNext {
		s.FailNext = false
		return "", "", "", fmt.Errorf("stub upload failure")
	}
	key := dir + "/" + fh.Filename
	url := "https://blob.test/" + key
	s.Uploaded = append(s.Uploaded, key)
	return key, "application/octet-stream", url, nil
}

func (s *StubBlob) UploadThumbnailWebP(_ context.Context, dir string, fh *multipart.FileHeader, _ string) (string, error) {
	return "https://blob.test/" + dir + "/" + fh.Filename + ".webp", nil
}

func (s *StubBlob) DeleteByPublicURL(_ context.Context, publicURL string) error {
	s.Deleted = append(s.Deleted, publicURL)
	return nil
}

var _ datasetController.BlobStorage = (*StubBlob)(nil)

// NewApp builds a fiber app wired exactly like main, minus the global
// middlewares that only matter in production (rate limits, cors).
func NewApp(t *testing.T, db *gorm.DB, blob datasetController.BlobStorage) *fiber.App {
	t.Helper()
	if blob == nil {
		blob = &StubBlob{}
	}
	app := fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	routes.SetupRoutes(app, db, blob)
	return app
}

// CreateUser inserts a user and returns it with a valid access token.
func CreateUser(t *testing.T, db *gorm.DB, name, role string) (*userModel.UserModel, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &userModel.UserModel{
		UserName:     name,
		UserEmail:    name + "@example.com",
		UserPassword: string(hash),
		UserRole:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := authService.CreateAccessToken(u.UserID, u.UserRole)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return u, token
}

// DoJSON performs a request against the app and decodes the envelope.
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// Middleware failures bypass the JSON envelope (fiber's default error
	// handler writes plain text); keep those reachable for assertions.
	out := map[string]any{}
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &out); err != nil {
			out["raw"] = string(raw)
		}
	}
	return resp.StatusCode, out
}

// Data digs the "data" object out of a success envelope.
func Data(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	d, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("envelope has no data object: %v", envelope)
	}
	return d
}

// DataList digs the "data" array out of a success envelope.
func DataList(t *testing.T, envelope map[string]any) []any {
	t.Helper()
	d, ok := envelope["data"].([]any)
	if !ok {
		t.Fatalf("envelope has no data array: %v", envelope)
	}
	return d
}

// SeedDataset creates a dataset directly in storage.
func SeedDataset(t *testing.T, db *gorm.DB, createdBy uuid.UUID, published bool) *datasetModel.DatasetModel {
	t.Helper()
	m := &datasetModel.DatasetModel{
		DatasetName:        "test dataset " + uuid.NewString()[:8],
		DatasetFileType:    "image",
		DatasetIsPublished: published,
		DatasetCreatedBy:   createdBy,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
	return m
}

// SeedQuestion creates a question directly in storage.
func SeedQuestion(t *testing.T, db *gorm.DB, datasetID uuid.UUID, answerType string) *questionModel.QuestionModel {
	t.Helper()
	m := &questionModel.QuestionModel{
		QuestionDatasetID:  datasetID,
		QuestionText:       "what do you see?",
		QuestionAnswerType: answerType,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return m
}

package controller_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	datasetModel "labelku_backend/internals/features/datasets/dataset/model"
	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	submissionModel "labelku_backend/internals/features/labeling/submission/model"
	"labelku_backend/internals/testutil"
)

func TestListDatasetsFiltersUnpublishedForUsers(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, adminToken := testutil.CreateUser(t, db, "admin-list", "admin")
	_, userToken := testutil.CreateUser(t, db, "user-list", "user")

	published := testutil.SeedDataset(t, db, admin.UserID, true)
	testutil.SeedDataset(t, db, admin.UserID, false)

	status, env := testutil.DoJSON(t, app, http.MethodGet, "/api/datasets", userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("user list: got %d", status)
	}
	rows := testutil.DataList(t, env)
	if len(rows) != 1 {
		t.Fatalf("user sees %d datasets, want 1", len(rows))
	}
	if rows[0].(map[string]any)["dataset_id"] != published.DatasetID.String() {
		t.Fatalf("user sees wrong dataset")
	}

	status, env = testutil.DoJSON(t, app, http.MethodGet, "/api/datasets", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin list: got %d", status)
	}
	if rows := testutil.DataList(t, env); len(rows) != 2 {
		t.Fatalf("admin sees %d datasets, want 2", len(rows))
	}
}

func TestGetUnpublishedDatasetForbiddenForUsers(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, adminToken := testutil.CreateUser(t, db, "admin-get", "admin")
	_, userToken := testutil.CreateUser(t, db, "user-get", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, false)

	path := "/api/datasets/" + ds.DatasetID.String()
	if status, _ := testutil.DoJSON(t, app, http.MethodGet, path, userToken, nil); status != http.StatusForbidden {
		t.Fatalf("user on unpublished: got %d, want 403", status)
	}
	if status, _ := testutil.DoJSON(t, app, http.MethodGet, path, adminToken, nil); status != http.StatusOK {
		t.Fatalf("admin on unpublished: got %d, want 200", status)
	}
}

func TestCreateDatasetRequiresAdmin(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	_, adminToken := testutil.CreateUser(t, db, "admin-create", "admin")
	_, userToken := testutil.CreateUser(t, db, "user-create", "user")

	body := map[string]any{
		"name":      "street signs",
		"file_type": "image",
		"questions": []map[string]any{
			{"text": "what sign is this?", "answerType": "text"},
		},
	}

	if status, _ := testutil.DoJSON(t, app, http.MethodPost, "/api/datasets", userToken, body); status != http.StatusForbidden {
		t.Fatalf("user create: got %d, want 403", status)
	}

	status, env := testutil.DoJSON(t, app, http.MethodPost, "/api/datasets", adminToken, body)
	if status != http.StatusCreated {
		t.Fatalf("admin create: got %d", status)
	}
	data := testutil.Data(t, env)
	if data["dataset_name"] != "street signs" {
		t.Fatalf("dataset_name = %v", data["dataset_name"])
	}
	if qs, ok := data["questions"].([]any); !ok || len(qs) != 1 {
		t.Fatalf("inline questions not created: %v", data["questions"])
	}
}

func TestUpdateDatasetPartial(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, adminToken := testutil.CreateUser(t, db, "admin-upd", "admin")
	ds := testutil.SeedDataset(t, db, admin.UserID, false)

	body := map[string]any{"is_published": true}
	status, env := testutil.DoJSON(t, app, http.MethodPut, "/api/datasets/"+ds.DatasetID.String(), adminToken, body)
	if status != http.StatusOK {
		t.Fatalf("update: got %d", status)
	}
	data := testutil.Data(t, env)
	if data["dataset_is_published"] != true {
		t.Fatalf("publish flag not applied: %v", data["dataset_is_published"])
	}
	if data["dataset_name"] != ds.DatasetName {
		t.Fatalf("untouched field changed: %v", data["dataset_name"])
	}
}

func TestDeleteDatasetCascades(t *testing.T) {
	db := testutil.OpenTestDB(t)
	blob := &testutil.StubBlob{}
	app := testutil.NewApp(t, db, blob)

	admin, adminToken := testutil.CreateUser(t, db, "admin-del", "admin")
	user, _ := testutil.CreateUser(t, db, "user-del", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)
	q := testutil.SeedQuestion(t, db, ds.DatasetID, "text")

	file := datasetModel.DatasetFileModel{
		DatasetFileDatasetID: ds.DatasetID,
		DatasetFileName:      "img.png",
		DatasetFilePath:      "datasets/x/img.png",
		DatasetFileURL:       "https://blob.test/datasets/x/img.png",
		DatasetFileType:      "image/png",
		DatasetFileSize:      128,
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("seed file: %v", err)
	}

	sub := submissionModel.SubmissionModel{
		SubmissionUserID:    user.UserID,
		SubmissionDatasetID: ds.DatasetID,
		SubmissionStatus:    submissionModel.StatusCompleted,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	answers := []answerModel.AnswerModel{
		{
			AnswerUserID: user.UserID, AnswerDatasetID: ds.DatasetID,
			AnswerQuestionID: q.QuestionID, AnswerFileID: answerModel.NoFileID,
			AnswerValue: "ad hoc",
		},
		{
			AnswerUserID: user.UserID, AnswerDatasetID: ds.DatasetID,
			AnswerQuestionID: q.QuestionID, AnswerFileID: file.DatasetFileID,
			AnswerSubmissionID: &sub.SubmissionID, AnswerValue: "batched",
		},
	}
	if err := db.Create(&answers).Error; err != nil {
		t.Fatalf("seed answers: %v", err)
	}

	path := "/api/datasets/" + ds.DatasetID.String()
	if status, _ := testutil.DoJSON(t, app, http.MethodDelete, path, adminToken, nil); status != http.StatusOK {
		t.Fatalf("delete: got %d", status)
	}

	for name, count := range map[string]int64{
		"questions": tableCount(t, db, &questionModel.QuestionModel{}, "question_dataset_id = ?", ds.DatasetID),
		"files":     tableCount(t, db, &datasetModel.DatasetFileModel{}, "dataset_file_dataset_id = ?", ds.DatasetID),
		"answers":   tableCount(t, db, &answerModel.AnswerModel{}, "answer_dataset_id = ?", ds.DatasetID),
	} {
		if count != 0 {
			t.Fatalf("%s not cascaded, %d left", name, count)
		}
	}

	// Submissions survive the cascade; only their answers are gone.
	if n := tableCount(t, db, &submissionModel.SubmissionModel{}, "submission_dataset_id = ?", ds.DatasetID); n != 1 {
		t.Fatalf("submissions = %d, want 1", n)
	}

	if status, _ := testutil.DoJSON(t, app, http.MethodGet, path, adminToken, nil); status != http.StatusNotFound {
		t.Fatalf("lookup after delete: got %d, want 404", status)
	}

	// Blob objects are removed best-effort after the transaction commits.
	if len(blob.Deleted) != 1 || blob.Deleted[0] != file.DatasetFileURL {
		t.Fatalf("blob deletes = %v", blob.Deleted)
	}

	if status, _ := testutil.DoJSON(t, app, http.MethodDelete, path, adminToken, nil); status != http.StatusNotFound {
		t.Fatalf("double delete: got %d, want 404", status)
	}
}

func TestUploadAndDeleteDatasetFiles(t *testing.T) {
	db := testutil.OpenTestDB(t)
	blob := &testutil.StubBlob{}
	app := testutil.NewApp(t, db, blob)

	admin, adminToken := testutil.CreateUser(t, db, "admin-files", "admin")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.bin", "b.bin"} {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := part.Write([]byte("payload")); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+ds.DatasetID.String()+"/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: got %d", resp.StatusCode)
	}
	if len(blob.Uploaded) != 2 {
		t.Fatalf("blob uploads = %v", blob.Uploaded)
	}

	var files []datasetModel.DatasetFileModel
	if err := db.Where("dataset_file_dataset_id = ?", ds.DatasetID).Find(&files).Error; err != nil {
		t.Fatalf("load files: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("want 2 file records, got %d", len(files))
	}

	delPath := "/api/datasets/" + ds.DatasetID.String() + "/files/" + files[0].DatasetFileID.String()
	if status, _ := testutil.DoJSON(t, app, http.MethodDelete, delPath, adminToken, nil); status != http.StatusOK {
		t.Fatalf("delete file: got %d", status)
	}
	if len(blob.Deleted) != 1 || blob.Deleted[0] != files[0].DatasetFileURL {
		t.Fatalf("blob deletes = %v", blob.Deleted)
	}
	if n := tableCount(t, db, &datasetModel.DatasetFileModel{}, "dataset_file_dataset_id = ?", ds.DatasetID); n != 1 {
		t.Fatalf("file records after delete = %d, want 1", n)
	}
}

func tableCount(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

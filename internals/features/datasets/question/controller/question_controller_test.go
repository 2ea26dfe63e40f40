package controller_test

import (
	"net/http"
	"testing"
	"time"

	questionModel "labelku_backend/internals/features/datasets/question/model"
	answerModel "labelku_backend/internals/features/labeling/answer/model"
	"labelku_backend/internals/testutil"
)

func TestListQuestionsOrderedByCreation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, _ := testutil.CreateUser(t, db, "admin-qlist", "admin")
	_, userToken := testutil.CreateUser(t, db, "user-qlist", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)

	first := questionModel.QuestionModel{
		QuestionDatasetID:  ds.DatasetID,
		QuestionText:       "first",
		QuestionAnswerType: questionModel.AnswerTypeText,
		QuestionCreatedAt:  time.Now().Add(-time.Minute),
	}
	second := questionModel.QuestionModel{
		QuestionDatasetID:  ds.DatasetID,
		QuestionText:       "second",
		QuestionAnswerType: questionModel.AnswerTypeText,
	}
	for _, q := range []*questionModel.QuestionModel{&first, &second} {
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}

	status, env := testutil.DoJSON(t, app, http.MethodGet, "/api/questions/dataset/"+ds.DatasetID.String(), userToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list: got %d", status)
	}
	rows := testutil.DataList(t, env)
	if len(rows) != 2 {
		t.Fatalf("want 2 questions, got %d", len(rows))
	}
	if rows[0].(map[string]any)["question_text"] != "first" {
		t.Fatalf("oldest question must come first, got %v", rows[0])
	}
}

func TestQuestionWritesRequireAdmin(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, adminToken := testutil.CreateUser(t, db, "admin-qcrud", "admin")
	_, userToken := testutil.CreateUser(t, db, "user-qcrud", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)

	body := map[string]any{
		"dataset_id":    ds.DatasetID.String(),
		"question_text": "is there a cat?",
		"answer_type":   "single_choice",
		"options":       []string{"yes", "no"},
	}

	if status, _ := testutil.DoJSON(t, app, http.MethodPost, "/api/questions", userToken, body); status != http.StatusForbidden {
		t.Fatalf("user create: got %d, want 403", status)
	}

	status, env := testutil.DoJSON(t, app, http.MethodPost, "/api/questions", adminToken, body)
	if status != http.StatusCreated {
		t.Fatalf("admin create: got %d", status)
	}
	qid := testutil.Data(t, env)["question_id"].(string)

	upd := map[string]any{"question_text": "is there a dog?"}
	status, env = testutil.DoJSON(t, app, http.MethodPut, "/api/questions/"+qid, adminToken, upd)
	if status != http.StatusOK {
		t.Fatalf("update: got %d", status)
	}
	if testutil.Data(t, env)["question_text"] != "is there a dog?" {
		t.Fatalf("text not updated")
	}
}

func TestDeleteQuestionCascadesAnswers(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, adminToken := testutil.CreateUser(t, db, "admin-qdel", "admin")
	user, _ := testutil.CreateUser(t, db, "user-qdel", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)
	q := testutil.SeedQuestion(t, db, ds.DatasetID, "text")

	row := answerModel.AnswerModel{
		AnswerUserID:     user.UserID,
		AnswerDatasetID:  ds.DatasetID,
		AnswerQuestionID: q.QuestionID,
		AnswerFileID:     answerModel.NoFileID,
		AnswerValue:      "orphan-to-be",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	if status, _ := testutil.DoJSON(t, app, http.MethodDelete, "/api/questions/"+q.QuestionID.String(), adminToken, nil); status != http.StatusOK {
		t.Fatalf("delete: got %d", status)
	}

	var n int64
	if err := db.Model(&answerModel.AnswerModel{}).Where("answer_question_id = ?", q.QuestionID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("answers not cascaded, %d left", n)
	}

	if status, _ := testutil.DoJSON(t, app, http.MethodDelete, "/api/questions/"+q.QuestionID.String(), adminToken, nil); status != http.StatusNotFound {
		t.Fatalf("double delete: got %d, want 404", status)
	}
}

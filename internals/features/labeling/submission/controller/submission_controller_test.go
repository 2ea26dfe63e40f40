package controller_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	answerModel "labelku_backend/internals/features/labeling/answer/model"
	submissionDTO "labelku_backend/internals/features/labeling/submission/dto"
	submissionModel "labelku_backend/internals/features/labeling/submission/model"
	submissionService "labelku_backend/internals/features/labeling/submission/service"
	"labelku_backend/internals/testutil"
)

func strptr(s string) *string { return &s }

func TestBatchSkipsInvalidItemsSilently(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, _ := testutil.CreateUser(t, db, "admin-batch", "admin")
	user, token := testutil.CreateUser(t, db, "user-batch", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)
	q1 := testutil.SeedQuestion(t, db, ds.DatasetID, "text")
	q2 := testutil.SeedQuestion(t, db, ds.DatasetID, "text")

	body := map[string]any{
		"dataset_id": ds.DatasetID.String(),
		"answers": []map[string]any{
			{"question_id": q1.QuestionID.String(), "answer_value": "a"},
			{"question_id": "", "answer_value": "skipped, no question"},
			{"question_id": q2.QuestionID.String(), "answer_value": ""},
			{"question_id": q2.QuestionID.String(), "answer_value": "b"},
		},
	}

	status, env := testutil.DoJSON(t, app, http.MethodPost, "/api/answers/batch", token, body)
	if status != http.StatusCreated {
		t.Fatalf("batch: got %d", status)
	}
	data := testutil.Data(t, env)

	stored, ok := data["stored"].([]any)
	if !ok {
		t.Fatalf("no stored array in response: %v", data)
	}
	if len(stored) != 2 {
		t.Fatalf("want 2 stored answers (2 items skipped), got %d", len(stored))
	}
	if _, present := data["errors"]; present {
		t.Fatalf("skipped items must not appear as errors: %v", data["errors"])
	}
	if data["submission_status"] != submissionModel.StatusCompleted {
		t.Fatalf("submission status = %v, want completed", data["submission_status"])
	}

	// Batch answers are scoped to the submission, not the upsert key.
	subID, err := uuid.Parse(data["submission_id"].(string))
	if err != nil {
		t.Fatalf("bad submission_id: %v", err)
	}
	var count int64
	if err := db.Model(&answerModel.AnswerModel{}).
		Where("answer_submission_id = ? AND answer_user_id = ?", subID, user.UserID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 submission-scoped answers, got %d", count)
	}
}

func TestBatchRecordsPerItemFailuresAndCompletes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, _ := testutil.CreateUser(t, db, "admin-fail", "admin")
	_, token := testutil.CreateUser(t, db, "user-fail", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)
	q := testutil.SeedQuestion(t, db, ds.DatasetID, "text")

	body := map[string]any{
		"dataset_id": ds.DatasetID.String(),
		"answers": []map[string]any{
			{"question_id": q.QuestionID.String(), "answer_value": "good"},
			{"question_id": uuid.NewString(), "answer_value": "question does not exist"},
		},
	}

	status, env := testutil.DoJSON(t, app, http.MethodPost, "/api/answers/batch", token, body)
	if status != http.StatusCreated {
		t.Fatalf("batch: got %d", status)
	}
	data := testutil.Data(t, env)

	if stored := data["stored"].([]any); len(stored) != 1 {
		t.Fatalf("want 1 stored, got %d", len(stored))
	}
	errs, ok := data["errors"].([]any)
	if !ok || len(errs) != 1 {
		t.Fatalf("want 1 item error, got %v", data["errors"])
	}
	item := errs[0].(map[string]any)
	if item["index"] != float64(1) {
		t.Fatalf("error index = %v, want 1", item["index"])
	}

	// Failures never demote the submission.
	if data["submission_status"] != submissionModel.StatusCompleted {
		t.Fatalf("status = %v, want completed", data["submission_status"])
	}
}

func TestBatchRequiresNonEmptyItems(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	admin, _ := testutil.CreateUser(t, db, "admin-empty", "admin")
	_, token := testutil.CreateUser(t, db, "user-empty", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)

	body := map[string]any{"dataset_id": ds.DatasetID.String(), "answers": []map[string]any{}}
	if status, _ := testutil.DoJSON(t, app, http.MethodPost, "/api/answers/batch", token, body); status != http.StatusUnprocessableEntity {
		t.Fatalf("empty batch: got %d, want 422", status)
	}
}

func TestFinalizeIsConditionalOnInProgress(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := submissionService.NewSubmissionService(db)
	ctx := context.Background()

	sub, err := svc.Open(ctx, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sub.SubmissionStatus != submissionModel.StatusInProgress {
		t.Fatalf("fresh submission status = %s", sub.SubmissionStatus)
	}

	if err := svc.Finalize(ctx, sub.SubmissionID, submissionModel.StatusCompleted); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	var after submissionModel.SubmissionModel
	if err := db.First(&after, "submission_id = ?", sub.SubmissionID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	firstSubmittedAt := after.SubmissionSubmittedAt
	if after.SubmissionStatus != submissionModel.StatusCompleted || firstSubmittedAt == nil {
		t.Fatalf("after finalize: status=%s submitted_at=%v", after.SubmissionStatus, firstSubmittedAt)
	}

	// A retried finalize with a different outcome is a no-op.
	if err := svc.Finalize(ctx, sub.SubmissionID, submissionModel.StatusFailed); err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if err := db.First(&after, "submission_id = ?", sub.SubmissionID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.SubmissionStatus != submissionModel.StatusCompleted {
		t.Fatalf("terminal status was overwritten: %s", after.SubmissionStatus)
	}
	if !after.SubmissionSubmittedAt.Equal(*firstSubmittedAt) {
		t.Fatalf("submitted_at changed on retry")
	}
}

func TestAggregationGroupsAnswersBySubmission(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)
	svc := submissionService.NewSubmissionService(db)
	ctx := context.Background()

	admin, adminToken := testutil.CreateUser(t, db, "admin-agg", "admin")
	user, userToken := testutil.CreateUser(t, db, "user-agg", "user")
	ds := testutil.SeedDataset(t, db, admin.UserID, true)
	q := testutil.SeedQuestion(t, db, ds.DatasetID, "text")

	items := func(n int) []submissionDTO.BatchAnswerItem {
		out := make([]submissionDTO.BatchAnswerItem, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, submissionDTO.BatchAnswerItem{
				QuestionID:  q.QuestionID.String(),
				AnswerValue: strptr("v"),
			})
		}
		return out
	}

	res1, err := svc.IngestBatch(ctx, user.UserID, ds.DatasetID, items(3))
	if err != nil {
		t.Fatalf("batch 1: %v", err)
	}
	res2, err := svc.IngestBatch(ctx, user.UserID, ds.DatasetID, items(2))
	if err != nil {
		t.Fatalf("batch 2: %v", err)
	}

	// One ad-hoc answer outside any submission.
	adhoc := answerModel.AnswerModel{
		AnswerUserID:     user.UserID,
		AnswerDatasetID:  ds.DatasetID,
		AnswerQuestionID: q.QuestionID,
		AnswerFileID:     answerModel.NoFileID,
		AnswerValue:      "ad hoc",
	}
	if err := db.Create(&adhoc).Error; err != nil {
		t.Fatalf("seed ad-hoc answer: %v", err)
	}

	path := "/api/datasets/" + ds.DatasetID.String() + "/answers"

	if status, _ := testutil.DoJSON(t, app, http.MethodGet, path, userToken, nil); status != http.StatusForbidden {
		t.Fatalf("non-admin aggregation: got %d, want 403", status)
	}

	status, env := testutil.DoJSON(t, app, http.MethodGet, path, adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("aggregation: got %d", status)
	}
	data := testutil.Data(t, env)

	if data["total_submissions"] != float64(2) {
		t.Fatalf("total_submissions = %v, want 2", data["total_submissions"])
	}
	// The ad-hoc answer is counted in the total even though it joins no group.
	if data["total_answers"] != float64(6) {
		t.Fatalf("total_answers = %v, want 6", data["total_answers"])
	}

	groups := data["submissions"].([]any)
	if len(groups) != 2 {
		t.Fatalf("want 2 groups, got %d", len(groups))
	}
	counts := map[string]int{}
	for _, g := range groups {
		gm := g.(map[string]any)
		counts[gm["submission_id"].(string)] = len(gm["answers"].([]any))
	}
	if counts[res1.Submission.SubmissionID.String()] != 3 {
		t.Fatalf("first submission group = %d answers, want 3", counts[res1.Submission.SubmissionID.String()])
	}
	if counts[res2.Submission.SubmissionID.String()] != 2 {
		t.Fatalf("second submission group = %d answers, want 2", counts[res2.Submission.SubmissionID.String()])
	}
}

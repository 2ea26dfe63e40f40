package dto

import (
	"testing"

	"gorm.io/datatypes"

	questionModel "labelku_backend/internals/features/datasets/question/model"
)

func TestValidateAnswerValue(t *testing.T) {
	question := func(answerType, options string) *questionModel.QuestionModel {
		q := &questionModel.QuestionModel{QuestionAnswerType: answerType}
		if options != "" {
			q.QuestionOptions = datatypes.JSON([]byte(options))
		}
		return q
	}

	tests := []struct {
		name    string
		q       *questionModel.QuestionModel
		value   string
		wantErr bool
	}{
		{"text accepts anything", question("text", ""), "whatever", false},
		{"empty always passes", question("number", ""), "", false},
		{"number accepts integer", question("number", ""), "7", false},
		{"number accepts float", question("number", ""), " 3.14 ", false},
		{"number rejects words", question("number", ""), "seven", true},
		{"single choice accepts option", question("single_choice", `["a","b"]`), "b", false},
		{"single choice rejects non-option", question("single_choice", `["a","b"]`), "c", true},
		{"single choice without options passes", question("single_choice", ""), "anything", false},
		{"multi choice accepts json array", question("multi_choice", `["a","b","c"]`), `["a","c"]`, false},
		{"multi choice accepts comma list", question("multi_choice", `["a","b","c"]`), "a, b", false},
		{"multi choice rejects unknown member", question("multi_choice", `["a","b"]`), `["a","z"]`, true},
		{"unknown type stored as-is", question("rating", ""), "5 stars", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswerValue(tt.q, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAnswerValue(%q) err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

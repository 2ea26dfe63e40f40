package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	questionModel "labelku_backend/internals/features/datasets/question/model"
)

// ValidateAnswerValue checks a submitted value against the question's
// declared answer type. Storage keeps the canonical text encoding either
// way; this only guards the submit boundary. An empty string always
// passes, it means the user cleared the answer.
func ValidateAnswerValue(q *questionModel.QuestionModel, value string) error {
	if value == "" {
		return nil
	}

	switch q.QuestionAnswerType {
	case questionModel.AnswerTypeText:
		return nil

	case questionModel.AnswerTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Errorf("answer_value must be numeric")
		}
		return nil

	case questionModel.AnswerTypeSingleChoice:
		opts := questionOptions(q)
		if len(opts) == 0 {
			return nil
		}
		if !contains(opts, value) {
			return fmt.Errorf("answer_value is not one of the question options")
		}
		return nil

	case questionModel.AnswerTypeMultiChoice:
		opts := questionOptions(q)
		if len(opts) == 0 {
			return nil
		}
		for _, v := range splitMultiChoice(value) {
			if !contains(opts, v) {
				return fmt.Errorf("answer_value contains %q which is not a question option", v)
			}
		}
		return nil
	}

	// Unknown types are stored as-is.
	return nil
}

func questionOptions(q *questionModel.QuestionModel) []string {
	if len(q.QuestionOptions) == 0 {
		return nil
	}
	var opts []string
	if err := sonic.Unmarshal(q.QuestionOptions, &opts); err != nil {
		return nil
	}
	return opts
}

// Multi-choice values arrive either as a JSON array or comma-separated.
func splitMultiChoice(value string) []string {
	var arr []string
	if err := sonic.Unmarshal([]byte(value), &arr); err == nil {
		return arr
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

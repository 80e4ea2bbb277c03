package prompt

import (
	"adaptivequiz/internal/model"
	"bytes"
	"encoding/json"
	"strings"
)

// History fields understood by FormatHistory
const (
	FieldID       = "id"
	FieldQuestion = "question"
	FieldAnswer   = "answer"
)

// FormatHistory renders each entry as "field: value" lines, entries separated
// by a blank line, in chronological order. Objects are rendered as indented JSON
// and missing values as N/A.
func FormatHistory(history []model.QuizQuestionAnswer, fields ...string) string {
	entries := make([]string, 0, len(history))
	for _, qa := range history {
		lines := make([]string, 0, len(fields))
		for _, field := range fields {
			lines = append(lines, field+": "+fieldValue(qa, field))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return strings.Join(entries, "\n\n")
}

func fieldValue(qa model.QuizQuestionAnswer, field string) string {
	switch field {
	case FieldID:
		return qa.ID
	case FieldQuestion:
		return indentJSON(qa.Question)
	case FieldAnswer:
		if qa.Answer == nil {
			return "N/A"
		}
		return indentJSON(qa.Answer)
	}
	return "N/A"
}

func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "N/A"
	}
	return strings.TrimRight(buf.String(), "\n")
}

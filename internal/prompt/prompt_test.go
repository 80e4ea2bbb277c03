package prompt

import (
	"adaptivequiz/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var info = model.QuizInfo{Topic: "Photosynthesis", Subject: "Biology", Level: "High school", Length: "Short"}

func history() []model.QuizQuestionAnswer {
	return []model.QuizQuestionAnswer{
		{
			ID:       "q1",
			Question: model.QuizQuestion{Question: "What is chlorophyll?", Description: "Pigments", Difficulty: "easy"},
			Answer:   &model.QuizAnswer{UserAnswer: "A pigment", CorrectAnswer: "A green pigment", IsCorrect: true, Feedback: "Correct!"},
		},
		{
			ID:       "q2",
			Question: model.QuizQuestion{Question: "Where does the Calvin cycle occur?", Description: "Location", Difficulty: "medium"},
		},
	}
}

func TestFormatHistoryQuestionOnly(t *testing.T) {
	out := FormatHistory(history(), FieldQuestion)

	want := "question: {\n" +
		"  \"question\": \"What is chlorophyll?\",\n" +
		"  \"description\": \"Pigments\",\n" +
		"  \"difficulty\": \"easy\"\n" +
		"}\n\n" +
		"question: {\n" +
		"  \"question\": \"Where does the Calvin cycle occur?\",\n" +
		"  \"description\": \"Location\",\n" +
		"  \"difficulty\": \"medium\"\n" +
		"}"
	assert.Equal(t, want, out)
	assert.NotContains(t, out, "answer:")
}

func TestFormatHistoryMissingAnswerIsNA(t *testing.T) {
	out := FormatHistory(history(), FieldQuestion, FieldAnswer)

	entries := strings.Split(out, "\n\n")
	assert.Len(t, entries, 2)
	assert.Contains(t, entries[0], "\"isCorrect\": true")
	assert.True(t, strings.HasSuffix(entries[1], "answer: N/A"))
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Equal(t, "", FormatHistory(nil, FieldQuestion))
}

func TestFormatHistoryDoesNotEscapeHTML(t *testing.T) {
	h := []model.QuizQuestionAnswer{{ID: "x", Question: model.QuizQuestion{Question: "Is 1 < 2 & 3 > 2?"}}}
	assert.Contains(t, FormatHistory(h, FieldQuestion), "Is 1 < 2 & 3 > 2?")
}

func TestContentSummaryInterpolatesInfo(t *testing.T) {
	p := ContentSummary(info)
	assert.Contains(t, p.System, "[BEGIN EXAMPLE]")
	assert.Contains(t, p.User, "Topic: Photosynthesis\n")
	assert.Contains(t, p.User, "Subject: Biology\n")
	assert.Contains(t, p.User, "Level: High school\n")
	assert.NotContains(t, p.User, "Length:")
}

func TestOutlineIncludesSummary(t *testing.T) {
	p := Outline(info, "* Light reactions")
	assert.Contains(t, p.User, "Length: Short\n")
	assert.Contains(t, p.User, "Content Summary:\n* Light reactions\n\n")
}

func TestNextQuestionRendersQuestionsOnly(t *testing.T) {
	p := NextQuestion(info, "summary text", "outline text", history())
	assert.Contains(t, p.User, "Length: Short "+LengthHint)
	assert.Contains(t, p.User, "Quiz Content:\nsummary text\n\n")
	assert.Contains(t, p.User, "Quiz Outline:\noutline text\n\n")
	assert.Contains(t, p.User, "What is chlorophyll?")
	assert.NotContains(t, p.User, "A green pigment")
	assert.Contains(t, p.System, "one level easier")
}

func TestValidateAnswerIncludesQuestionAndAnswer(t *testing.T) {
	p := ValidateAnswer(info, "summary", model.QuizQuestion{Question: "What is ATP?"}, "Energy currency")
	assert.Contains(t, p.User, "Question:\nWhat is ATP?\n\n")
	assert.Contains(t, p.User, "Answer:\nEnergy currency\n\n")
	assert.Contains(t, p.System, "isCorrect: false")
}

func TestCheckCompletionRendersAnswers(t *testing.T) {
	p := CheckCompletion(info, "summary", history())
	assert.Contains(t, p.User, "A green pigment")
	assert.Contains(t, p.User, "answer: N/A")
	assert.Contains(t, p.User, LengthHint)
}

func TestMissingLengthRendersNA(t *testing.T) {
	p := NextQuestion(model.QuizInfo{Topic: "t", Subject: "s", Level: "l"}, "c", "o", nil)
	assert.Contains(t, p.User, "Length: N/A "+LengthHint)
}

func TestBuildersAreDeterministic(t *testing.T) {
	assert.Equal(t, CheckCompletion(info, "s", history()), CheckCompletion(info, "s", history()))
}

package session

import (
	"adaptivequiz/internal/llm"
	"adaptivequiz/internal/model"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProcs answers "right" as correct and anything else as incorrect,
// and reports completion once the history reaches completeAt entries
type fakeProcs struct {
	mu          sync.Mutex
	completeAt  int
	failOn      map[string]error
	calls       map[string]int
	lastHistory []model.QuizQuestionAnswer
	block       chan struct{}
}

func newFakeProcs(completeAt int) *fakeProcs {
	return &fakeProcs{completeAt: completeAt, failOn: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeProcs) enter(op string) error {
	f.mu.Lock()
	f.calls[op]++
	err := f.failOn[op]
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeProcs) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeProcs) setFail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failOn, op)
		return
	}
	f.failOn[op] = err
}

func (f *fakeProcs) Content(ctx context.Context, req *model.ContentRequest) (string, error) {
	if err := f.enter("content"); err != nil {
		return "", err
	}
	return "* " + req.Info.Topic, nil
}

func (f *fakeProcs) Outline(ctx context.Context, req *model.OutlineRequest) (string, error) {
	if err := f.enter("outline"); err != nil {
		return "", err
	}
	return "outline of " + req.Summary, nil
}

func (f *fakeProcs) GenerateQuestion(ctx context.Context, req *model.GenerateQuestionRequest) (*model.QuizQuestion, error) {
	if err := f.enter("generateQuestion"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastHistory = req.History
	f.mu.Unlock()
	n := len(req.History) + 1
	return &model.QuizQuestion{Question: fmt.Sprintf("Question %d?", n), Description: "d", Difficulty: "easy"}, nil
}

func (f *fakeProcs) ValidateAnswer(ctx context.Context, req *model.ValidateAnswerRequest) (*model.QuizAnswer, error) {
	if err := f.enter("validateAnswer"); err != nil {
		return nil, err
	}
	return &model.QuizAnswer{
		UserAnswer:    req.Answer,
		CorrectAnswer: "right",
		IsCorrect:     req.Answer == "right",
		Feedback:      "fb",
	}, nil
}

func (f *fakeProcs) CheckCompletion(ctx context.Context, req *model.CheckCompletionRequest) (bool, error) {
	if err := f.enter("checkCompletion"); err != nil {
		return false, err
	}
	return len(req.History) >= f.completeAt, nil
}

var fullInfo = model.QuizInfo{Topic: "Photosynthesis", Subject: "Biology", Level: "High school", Length: "Short"}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func TestStartRunsUntilFirstQuestion(t *testing.T) {
	procs := newFakeProcs(3)
	var states []model.SessionState
	m := New(procs, nil, sequentialIDs(), WithObserver(func(s *model.Session) {
		states = append(states, s.State)
	}))

	require.NoError(t, m.Start(context.Background(), fullInfo))

	s := m.Session()
	assert.Equal(t, model.StateAwaitingAnswer, s.State)
	assert.Equal(t, "* Photosynthesis", s.Summary)
	assert.Equal(t, "outline of * Photosynthesis", s.Outline)
	require.Len(t, s.History, 1)
	assert.Equal(t, "id-2", s.History[0].ID)
	assert.Nil(t, s.History[0].Answer)
	assert.Equal(t, []model.SessionState{
		model.StateSummarizingContent,
		model.StateGeneratingOutline,
		model.StateAwaitingQuestion,
		model.StateAwaitingAnswer,
	}, states)
}

func TestStartRequiresAllInfoFields(t *testing.T) {
	procs := newFakeProcs(3)
	m := New(procs, nil)

	info := fullInfo
	info.Length = " "
	err := m.Start(context.Background(), info)
	assert.ErrorIs(t, err, ErrIncompleteInfo)
	assert.Equal(t, model.StateCollectingInfo, m.Session().State)
	assert.Zero(t, procs.count("content"))
}

func TestStartTwiceIsInvalid(t *testing.T) {
	m := New(newFakeProcs(3), nil)
	require.NoError(t, m.Start(context.Background(), fullInfo))
	assert.ErrorIs(t, m.Start(context.Background(), fullInfo), ErrInvalidTransition)
}

func TestFullRunScoresAndCompletes(t *testing.T) {
	procs := newFakeProcs(4)
	m := New(procs, nil)
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, fullInfo))

	answers := []string{"right", "wrong", "right", "right"}
	for _, a := range answers {
		require.NoError(t, m.SubmitAnswer(ctx, a))
	}

	s := m.Session()
	assert.Equal(t, model.StateCompleted, s.State)
	assert.True(t, s.Completed)
	assert.Equal(t, 3, s.Score)
	assert.Equal(t, s.CorrectCount(), s.Score)
	assert.Len(t, s.History, 4)
	assert.Empty(t, s.PendingAnswer)

	// completion is only consulted from the third answer on
	assert.Equal(t, 2, procs.count("checkCompletion"))
	assert.Equal(t, 4, procs.count("generateQuestion"))
}

func TestCompletionNotConsultedBeforeThreeAnswers(t *testing.T) {
	procs := newFakeProcs(0) // model would say complete immediately
	m := New(procs, nil)
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, fullInfo))

	require.NoError(t, m.SubmitAnswer(ctx, "right"))
	require.NoError(t, m.SubmitAnswer(ctx, "right"))
	assert.Zero(t, procs.count("checkCompletion"))
	assert.Equal(t, model.StateAwaitingAnswer, m.Session().State)

	require.NoError(t, m.SubmitAnswer(ctx, "right"))
	assert.Equal(t, 1, procs.count("checkCompletion"))
	assert.Equal(t, model.StateCompleted, m.Session().State)
}

func TestGenerateQuestionReceivesFullHistoryInOrder(t *testing.T) {
	procs := newFakeProcs(10)
	m := New(procs, nil, sequentialIDs())
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, fullInfo))
	require.NoError(t, m.SubmitAnswer(ctx, "right"))
	require.NoError(t, m.SubmitAnswer(ctx, "wrong"))

	require.Len(t, procs.lastHistory, 2)
	assert.Equal(t, "Question 1?", procs.lastHistory[0].Question.Question)
	assert.Equal(t, "Question 2?", procs.lastHistory[1].Question.Question)
	assert.False(t, procs.lastHistory[1].Answer.IsCorrect)
}

func TestSubmitAnswerValidation(t *testing.T) {
	m := New(newFakeProcs(3), nil)
	ctx := context.Background()

	assert.ErrorIs(t, m.SubmitAnswer(ctx, "right"), ErrInvalidTransition)

	require.NoError(t, m.Start(ctx, fullInfo))
	assert.ErrorIs(t, m.SubmitAnswer(ctx, "   "), ErrEmptyAnswer)
	assert.Equal(t, model.StateAwaitingAnswer, m.Session().State)
}

func TestStageFailureHaltsAndRetryResumes(t *testing.T) {
	procs := newFakeProcs(3)
	m := New(procs, nil)
	ctx := context.Background()
	require.NoError(t, m.Start(ctx, fullInfo))

	transportErr := &llm.ModelTransportError{Op: "validateAnswer", Kind: llm.KindTimeout, Err: context.DeadlineExceeded}
	procs.setFail("validateAnswer", transportErr)

	err := m.SubmitAnswer(ctx, "right")
	var stageErr *StageFailedError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, model.StateValidating, stageErr.Stage)
	assert.ErrorIs(t, err, transportErr)

	s := m.Session()
	assert.Equal(t, model.StateValidating, s.State)
	require.NotNil(t, s.Error)
	assert.Equal(t, model.KindModelTransport, s.Error.Kind)
	assert.Equal(t, model.StateValidating, s.Error.Stage)
	assert.Equal(t, "right", s.PendingAnswer)
	assert.Nil(t, s.History[0].Answer)
	assert.Equal(t, 1, procs.count("validateAnswer"), "no automatic retry")

	procs.setFail("validateAnswer", nil)
	require.NoError(t, m.Retry(ctx))

	s = m.Session()
	assert.Nil(t, s.Error)
	assert.Equal(t, model.StateAwaitingAnswer, s.State)
	assert.Equal(t, 1, s.Score)
	assert.Len(t, s.History, 2)
}

func TestSchemaFailureDuringQuestion(t *testing.T) {
	procs := newFakeProcs(3)
	procs.setFail("generateQuestion", &llm.SchemaValidationError{Schema: "submit_quiz_question", Reason: "missing difficulty"})
	m := New(procs, nil)

	err := m.Start(context.Background(), fullInfo)
	require.Error(t, err)

	s := m.Session()
	assert.Equal(t, model.StateAwaitingQuestion, s.State)
	assert.Equal(t, model.KindSchemaValidation, s.Error.Kind)
	assert.Empty(t, s.History)

	// the user cannot answer a question that was never generated
	assert.ErrorIs(t, m.SubmitAnswer(context.Background(), "right"), ErrInvalidTransition)
}

func TestRetryWithoutFailureIsInvalid(t *testing.T) {
	m := New(newFakeProcs(3), nil)
	assert.ErrorIs(t, m.Retry(context.Background()), ErrInvalidTransition)
}

func TestConcurrentCallsAreRejectedWhileBusy(t *testing.T) {
	procs := newFakeProcs(3)
	procs.block = make(chan struct{})
	m := New(procs, nil)

	done := make(chan error, 1)
	go func() { done <- m.Start(context.Background(), fullInfo) }()

	require.Eventually(t, func() bool { return procs.count("content") == 1 }, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, m.Start(context.Background(), fullInfo), ErrBusy)
	assert.ErrorIs(t, m.SubmitAnswer(context.Background(), "x"), ErrBusy)

	close(procs.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, procs.count("content"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, model.KindConflict, Kind(ErrBusy))
	assert.Equal(t, model.KindConflict, Kind(fmt.Errorf("wrapped: %w", ErrInvalidTransition)))
	assert.Equal(t, model.KindValidation, Kind(ErrEmptyAnswer))
	assert.Equal(t, model.KindModelTransport, Kind(&StageFailedError{Err: &llm.ModelTransportError{Err: errors.New("x")}}))
	assert.Equal(t, model.KindInternal, Kind(errors.New("boom")))
	assert.Equal(t, "", Kind(nil))
}

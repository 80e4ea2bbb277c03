// Package session drives one quiz run through its stages, one procedure call at a time.
package session

import (
	"adaptivequiz/internal/model"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBusy              = errors.New("a request is already in progress for this session")
	ErrInvalidTransition = errors.New("operation not allowed in the current state")
	ErrEmptyAnswer       = errors.New("answer must not be empty")
	ErrIncompleteInfo    = errors.New("topic, subject, level and length are required")
	ErrEmptyContent      = errors.New("content procedure returned an empty summary")
)

// Procedures are the five quiz procedures the machine calls.
// Both the in-process service and the HTTP client implement it.
type Procedures interface {
	Content(ctx context.Context, req *model.ContentRequest) (string, error)
	Outline(ctx context.Context, req *model.OutlineRequest) (string, error)
	GenerateQuestion(ctx context.Context, req *model.GenerateQuestionRequest) (*model.QuizQuestion, error)
	ValidateAnswer(ctx context.Context, req *model.ValidateAnswerRequest) (*model.QuizAnswer, error)
	CheckCompletion(ctx context.Context, req *model.CheckCompletionRequest) (bool, error)
}

// Observer receives a snapshot after every transition and every stage failure
type Observer func(snapshot *model.Session)

// Option configures a Machine
type Option func(*Machine)

// WithObserver registers a transition hook
func WithObserver(fn Observer) Option {
	return func(m *Machine) { m.observer = fn }
}

// WithIDGenerator overrides the history entry id generator
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// Machine owns a session and advances it through the quiz stages
type Machine struct {
	procs    Procedures
	observer Observer
	newID    func() string

	busy atomic.Bool
	mu   sync.Mutex // guards sess
	sess *model.Session
}

// New creates a machine for sess, or for a fresh session when sess is nil
func New(procs Procedures, sess *model.Session, opts ...Option) *Machine {
	m := &Machine{
		procs: procs,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	if sess == nil {
		sess = model.NewSession(m.newID())
	}
	m.sess = sess
	return m
}

// Session returns a snapshot of the current session
func (m *Machine) Session() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Snapshot()
}

// Start accepts the quiz info and runs until the first question is ready
func (m *Machine) Start(ctx context.Context, info model.QuizInfo) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	if state := m.state(); state != model.StateCollectingInfo {
		return fmt.Errorf("start in %s: %w", state, ErrInvalidTransition)
	}
	if !complete(info) {
		return ErrIncompleteInfo
	}

	m.update(func(s *model.Session) {
		s.Info = &info
		s.State = model.StateSummarizingContent
	})
	return m.run(ctx)
}

// SubmitAnswer records the answer to the current question and runs until the
// next question is ready or the quiz completes
func (m *Machine) SubmitAnswer(ctx context.Context, answer string) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	if state := m.state(); state != model.StateAwaitingAnswer {
		return fmt.Errorf("submit answer in %s: %w", state, ErrInvalidTransition)
	}
	if strings.TrimSpace(answer) == "" {
		return ErrEmptyAnswer
	}

	m.update(func(s *model.Session) {
		s.PendingAnswer = answer
		s.State = model.StateValidating
	})
	return m.run(ctx)
}

// Retry clears the stage error and re-runs the stage that failed
func (m *Machine) Retry(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	failed := m.sess.Error
	if failed == nil {
		m.mu.Unlock()
		return fmt.Errorf("retry without a failed stage: %w", ErrInvalidTransition)
	}
	m.sess.Error = nil
	m.mu.Unlock()

	log.Printf("[session] %s: retrying %s", m.sess.ID, failed.Stage)
	return m.run(ctx)
}

// run advances through automatic stages until the session waits for the user,
// completes or fails
func (m *Machine) run(ctx context.Context) error {
	for {
		m.mu.Lock()
		s := m.sess.Snapshot()
		m.mu.Unlock()

		var err error
		switch s.State {
		case model.StateSummarizingContent:
			err = m.summarize(ctx, s)
		case model.StateGeneratingOutline:
			err = m.outline(ctx, s)
		case model.StateAwaitingQuestion:
			err = m.question(ctx, s)
		case model.StateValidating:
			err = m.validate(ctx, s)
		case model.StateCheckingCompletion:
			err = m.checkCompletion(ctx, s)
		default:
			return nil
		}
		if err != nil {
			return m.fail(s.State, err)
		}
	}
}

func (m *Machine) summarize(ctx context.Context, s *model.Session) error {
	content, err := m.procs.Content(ctx, &model.ContentRequest{Info: *s.Info})
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	m.update(func(s *model.Session) {
		s.Summary = content
		s.State = model.StateGeneratingOutline
	})
	return nil
}

func (m *Machine) outline(ctx context.Context, s *model.Session) error {
	outline, err := m.procs.Outline(ctx, &model.OutlineRequest{Info: *s.Info, Summary: s.Summary})
	if err != nil {
		return err
	}
	m.update(func(s *model.Session) {
		s.Outline = outline
		s.State = model.StateAwaitingQuestion
	})
	return nil
}

func (m *Machine) question(ctx context.Context, s *model.Session) error {
	q, err := m.procs.GenerateQuestion(ctx, &model.GenerateQuestionRequest{
		Info:    *s.Info,
		Content: s.Summary,
		Outline: s.Outline,
		History: s.History,
	})
	if err != nil {
		return err
	}
	m.update(func(s *model.Session) {
		s.History = append(s.History, model.QuizQuestionAnswer{ID: m.newID(), Question: *q})
		s.State = model.StateAwaitingAnswer
	})
	return nil
}

func (m *Machine) validate(ctx context.Context, s *model.Session) error {
	current := s.Current()
	if current == nil {
		return fmt.Errorf("validate without a question: %w", ErrInvalidTransition)
	}
	answer, err := m.procs.ValidateAnswer(ctx, &model.ValidateAnswerRequest{
		Info:     *s.Info,
		Content:  s.Summary,
		Question: current.Question,
		Answer:   s.PendingAnswer,
	})
	if err != nil {
		return err
	}

	var attachErr error
	m.update(func(s *model.Session) {
		if attachErr = s.Current().AttachAnswer(*answer); attachErr != nil {
			return
		}
		if answer.IsCorrect {
			s.Score++
		}
		s.PendingAnswer = ""
		s.State = model.StateCheckingCompletion
	})
	return attachErr
}

func (m *Machine) checkCompletion(ctx context.Context, s *model.Session) error {
	done := false
	if s.AnsweredCount() >= model.MinAnsweredForCompletion {
		var err error
		done, err = m.procs.CheckCompletion(ctx, &model.CheckCompletionRequest{
			Info:    *s.Info,
			Summary: s.Summary,
			History: s.History,
		})
		if err != nil {
			return err
		}
	}

	m.update(func(s *model.Session) {
		if done {
			s.Completed = true
			s.State = model.StateCompleted
			return
		}
		s.State = model.StateAwaitingQuestion
	})
	return nil
}

// fail records the stage error and halts at the failing stage
func (m *Machine) fail(stage model.SessionState, err error) error {
	m.update(func(s *model.Session) {
		s.Error = &model.StageError{Stage: stage, Kind: Kind(err), Message: err.Error()}
	})
	log.Printf("[session] %s: %s failed: %v", m.sess.ID, stage, err)
	return &StageFailedError{Stage: stage, Err: err}
}

// update mutates the session under the lock and notifies the observer
func (m *Machine) update(fn func(s *model.Session)) {
	m.mu.Lock()
	fn(m.sess)
	m.sess.UpdatedAt = time.Now()
	snap := m.sess.Snapshot()
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(snap)
	}
}

func (m *Machine) state() model.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.State
}

func complete(info model.QuizInfo) bool {
	for _, v := range []string{info.Topic, info.Subject, info.Level, info.Length} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

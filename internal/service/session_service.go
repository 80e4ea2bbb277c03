package service

import (
	"adaptivequiz/internal/cache"
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/repository"
	"adaptivequiz/internal/session"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

var (
	ErrResultsDisabled = errors.New("results archive is not configured")
	ErrResultNotFound  = errors.New("no result archived for this session")
)

// SessionService hosts quiz sessions server-side. Sessions live in Redis and
// every mutating call holds the per-session Redis lock.
type SessionService struct {
	procs       session.Procedures
	cache       cache.SessionCache
	results     repository.ResultRepo // nil when MongoDB is not configured
	auth        *AuthService
	broadcaster Broadcaster
}

// NewSessionService creates a new hosted session service
func NewSessionService(procs session.Procedures, sessionCache cache.SessionCache, results repository.ResultRepo, auth *AuthService) *SessionService {
	return &SessionService{
		procs:   procs,
		cache:   sessionCache,
		results: results,
		auth:    auth,
	}
}

// SetBroadcaster sets the WebSocket broadcaster (called after hub is created)
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create starts a new session and runs it up to the first question.
// A stage failure is not an error here: the session is returned with its error state.
func (s *SessionService) Create(ctx context.Context, info model.QuizInfo) (*model.CreateSessionResponse, error) {
	id := uuid.New().String()
	m := session.New(s.procs, model.NewSession(id), session.WithObserver(s.observe))

	lockToken, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.unlock(ctx, id, lockToken)

	runCtx, release := s.holdLock(ctx, id, lockToken)
	defer release()

	if err := m.Start(runCtx, info); err != nil && !isStageFailure(err) {
		return nil, err
	}

	sess := m.Session()
	if err := s.cache.Set(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.auth.IssueSessionToken(id)
	if err != nil {
		return nil, err
	}

	log.Printf("[session] created %s (%s / %s) in state %s", id, info.Subject, info.Topic, sess.State)
	return &model.CreateSessionResponse{Token: token, Session: sess}, nil
}

// Get returns the stored session
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.cache.Get(ctx, id)
}

// SubmitAnswer answers the current question and runs until the next question
// or completion
func (s *SessionService) SubmitAnswer(ctx context.Context, id, answer string) (*model.Session, error) {
	return s.mutate(ctx, id, func(ctx context.Context, m *session.Machine) error {
		return m.SubmitAnswer(ctx, answer)
	})
}

// Retry re-runs the stage that failed
func (s *SessionService) Retry(ctx context.Context, id string) (*model.Session, error) {
	return s.mutate(ctx, id, func(ctx context.Context, m *session.Machine) error {
		return m.Retry(ctx)
	})
}

// Delete discards a session and disconnects its subscribers.
// A session with a request in flight is busy and is not deleted.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	lockToken, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer s.unlock(ctx, id, lockToken)

	if _, err := s.cache.Get(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(id)
	}
	log.Printf("[session] deleted %s", id)
	return nil
}

// Results lists recently completed quizzes
func (s *SessionService) Results(ctx context.Context, limit int64) ([]*model.QuizResult, error) {
	if s.results == nil {
		return nil, ErrResultsDisabled
	}
	return s.results.ListRecent(ctx, limit)
}

// Result returns the archived result of a completed session
func (s *SessionService) Result(ctx context.Context, id string) (*model.QuizResult, error) {
	if s.results == nil {
		return nil, ErrResultsDisabled
	}
	result, err := s.results.GetBySession(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrResultNotFound
	}
	return result, nil
}

// mutate loads the session under the lock, applies op and stores the result.
// The store fails if the lock was lost or the session deleted meanwhile.
func (s *SessionService) mutate(ctx context.Context, id string, op func(ctx context.Context, m *session.Machine) error) (*model.Session, error) {
	lockToken, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.unlock(ctx, id, lockToken)

	runCtx, release := s.holdLock(ctx, id, lockToken)
	defer release()

	stored, err := s.cache.Get(runCtx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := stored.Completed

	m := session.New(s.procs, stored, session.WithObserver(s.observe))
	if err := op(runCtx, m); err != nil && !isStageFailure(err) {
		return nil, err
	}

	sess := m.Session()
	if err := s.cache.Replace(context.WithoutCancel(ctx), sess, lockToken); err != nil {
		if errors.Is(err, cache.ErrLockLost) {
			log.Printf("[session] %s: lock lost before store, dropping result", id)
			return nil, fmt.Errorf("%w: %w", session.ErrBusy, err)
		}
		return nil, err
	}
	if sess.Completed && !wasCompleted {
		s.archive(ctx, sess)
	}
	return sess, nil
}

// holdLock renews the session lock until release is called. The returned
// context is canceled if the lock is lost.
func (s *SessionService) holdLock(ctx context.Context, id, token string) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	interval := s.cache.LockTTL() / 3
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-runCtx.Done():
				return
			case <-ticker.C:
				err := s.cache.Refresh(runCtx, id, token)
				if errors.Is(err, cache.ErrLockLost) {
					log.Printf("[session] %s: lock lost, canceling request", id)
					cancel()
					return
				}
				if err != nil {
					log.Printf("[session] %s: failed to refresh lock: %v", id, err)
				}
			}
		}
	}()

	return runCtx, func() {
		close(done)
		cancel()
	}
}

func (s *SessionService) archive(ctx context.Context, sess *model.Session) {
	if s.results == nil {
		return
	}
	result := model.ResultFromSession(sess)
	if err := s.results.Save(context.WithoutCancel(ctx), result); err != nil {
		log.Printf("[session] failed to archive result for %s: %v", sess.ID, err)
		return
	}
	log.Printf("[session] %s completed with score %d/%d", sess.ID, result.Score, result.Answered)
}

func (s *SessionService) observe(snap *model.Session) {
	if s.broadcaster == nil {
		return
	}
	if snap.Error != nil {
		s.broadcaster.BroadcastToSession(snap.ID, MsgSessionError, snap.Error)
	}
	s.broadcaster.BroadcastToSession(snap.ID, MsgSessionState, snap)
}

func (s *SessionService) lock(ctx context.Context, id string) (string, error) {
	token, err := s.cache.Lock(ctx, id)
	if errors.Is(err, cache.ErrSessionLocked) {
		return "", session.ErrBusy
	}
	return token, err
}

func (s *SessionService) unlock(ctx context.Context, id, token string) {
	if err := s.cache.Unlock(context.WithoutCancel(ctx), id, token); err != nil {
		log.Printf("[session] failed to release lock for %s: %v", id, err)
	}
}

func isStageFailure(err error) bool {
	var stageErr *session.StageFailedError
	return errors.As(err, &stageErr)
}

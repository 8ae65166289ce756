// Package session drives a fixed-length quiz round: it judges answers,
// updates fact weights, persists them and keeps the running score.
package session

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/internal/spaced_repetition"
	"github.com/example/levelup/pkg/models"
)

// DefaultTotalQuestions is the round length when none is configured.
const DefaultTotalQuestions = 20

// State of a session.
type State int

const (
	AwaitingAnswer State = iota
	ShowingFeedback
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case ShowingFeedback:
		return "showing_feedback"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// FeedbackKind describes the judgement of the last answer.
type FeedbackKind int

const (
	NoFeedback FeedbackKind = iota
	Correct
	Incorrect
)

func (f FeedbackKind) String() string {
	switch f {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// TaskSource produces the next task from the pool.
type TaskSource interface {
	Generate(p *pool.Pool) models.Task
}

// WeightStore mirrors the pool's weights into durable storage.
type WeightStore interface {
	Load(ctx context.Context, p *pool.Pool) error
	Save(ctx context.Context, p *pool.Pool) error
}

// ResultRecorder receives the outcome of every finished round.
type ResultRecorder interface {
	Record(ctx context.Context, result models.QuizResult) error
}

// Config holds the round length and optional collaborators.
type Config struct {
	TotalQuestions int
	Policy         *spaced_repetition.Policy
	Store          WeightStore    // nil = weights are not persisted
	Recorder       ResultRecorder // nil = results are not recorded
	Logger         *slog.Logger
	Now            func() time.Time
}

// DefaultConfig returns a config with the standard round length and policy.
func DefaultConfig() Config {
	return Config{
		TotalQuestions: DefaultTotalQuestions,
		Policy:         spaced_repetition.DefaultPolicy(),
		Logger:         slog.Default(),
		Now:            time.Now,
	}
}

// SubmitResult is returned by Submit.
type SubmitResult struct {
	State         State
	Feedback      FeedbackKind
	CorrectAnswer *int // set when the answer was wrong
	Accepted      bool // false when the call was ignored
}

// AdvanceResult is returned by Advance.
type AdvanceResult struct {
	State      State
	Task       *models.Task // set when a new question starts
	FinalScore *int         // set when the round finished
	Accepted   bool
}

// RestartResult is returned by Restart.
type RestartResult struct {
	State    State
	Task     models.Task
	Accepted bool
}

// Session is a single quiz round. It is driven by one caller at a time.
type Session struct {
	pool *pool.Pool
	gen  TaskSource
	cfg  Config

	state     State
	task      models.Task
	answer    string
	feedback  FeedbackKind
	score     int
	index     int
	startedAt time.Time
}

// New starts a round with a freshly generated task.
func New(p *pool.Pool, gen TaskSource, cfg Config) *Session {
	def := DefaultConfig()
	if cfg.TotalQuestions <= 0 {
		cfg.TotalQuestions = def.TotalQuestions
	}
	if cfg.Policy == nil {
		cfg.Policy = def.Policy
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}

	s := &Session{pool: p, gen: gen, cfg: cfg}
	s.begin()
	return s
}

func (s *Session) begin() {
	s.score = 0
	s.index = 1
	s.startedAt = s.cfg.Now()
	s.nextTask()
}

func (s *Session) nextTask() {
	s.task = s.gen.Generate(s.pool)
	s.answer = ""
	s.feedback = NoFeedback
	s.state = AwaitingAnswer
}

// Submit judges raw input against the current task. Input that is not an
// integer counts as wrong. Ignored unless the session awaits an answer.
func (s *Session) Submit(ctx context.Context, raw string) SubmitResult {
	if s.state != AwaitingAnswer {
		return SubmitResult{State: s.state, Feedback: s.feedback}
	}

	s.answer = raw
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	correct := err == nil && value == s.task.Result

	if weight, changed := s.cfg.Policy.Update(s.pool, s.task.Fact, correct); changed {
		s.cfg.Logger.Debug("fact weight updated",
			"fact", s.task.Fact.String(), "correct", correct, "weight", weight)
	}
	s.persist(ctx)

	s.state = ShowingFeedback
	res := SubmitResult{State: s.state, Accepted: true}
	if correct {
		s.score++
		s.feedback = Correct
	} else {
		s.feedback = Incorrect
		solution := s.task.Result
		res.CorrectAnswer = &solution
	}
	res.Feedback = s.feedback
	return res
}

// persist saves the whole pool. Failures are logged and skipped.
func (s *Session) persist(ctx context.Context) {
	if s.cfg.Store == nil {
		return
	}
	if err := s.cfg.Store.Save(ctx, s.pool); err != nil {
		s.cfg.Logger.Warn("failed to save weights, skipping", "error", err)
	}
}

// Advance moves past the feedback to the next question or ends the round.
// Ignored unless feedback is showing.
func (s *Session) Advance(ctx context.Context) AdvanceResult {
	if s.state != ShowingFeedback {
		return AdvanceResult{State: s.state}
	}

	s.index++
	if s.index > s.cfg.TotalQuestions {
		s.state = Finished
		s.record(ctx)
		score := s.score
		return AdvanceResult{State: s.state, FinalScore: &score, Accepted: true}
	}

	s.nextTask()
	task := s.task
	return AdvanceResult{State: s.state, Task: &task, Accepted: true}
}

func (s *Session) record(ctx context.Context) {
	if s.cfg.Recorder == nil {
		return
	}
	result := models.QuizResult{
		Score:      s.score,
		Total:      s.cfg.TotalQuestions,
		StartedAt:  s.startedAt,
		FinishedAt: s.cfg.Now(),
	}
	if err := s.cfg.Recorder.Record(ctx, result); err != nil {
		s.cfg.Logger.Warn("failed to record quiz result", "error", err)
	}
}

// Restart begins a new round. Ignored unless the round is finished.
func (s *Session) Restart() RestartResult {
	if s.state != Finished {
		return RestartResult{State: s.state, Task: s.task}
	}
	s.begin()
	return RestartResult{State: s.state, Task: s.task, Accepted: true}
}

func (s *Session) State() State { return s.state }
func (s *Session) Task() models.Task { return s.task }
func (s *Session) Answer() string { return s.answer }
func (s *Session) Feedback() FeedbackKind { return s.feedback }
func (s *Session) Score() int { return s.score }
func (s *Session) Index() int { return s.index }
func (s *Session) Total() int { return s.cfg.TotalQuestions }
func (s *Session) Pool() *pool.Pool { return s.pool }

// LoadPool creates a pool and hydrates it from store. A failed load is
// logged and the defaults are kept.
func LoadPool(ctx context.Context, store WeightStore, logger *slog.Logger) *pool.Pool {
	p := pool.New()
	if store == nil {
		return p
	}
	if err := store.Load(ctx, p); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("failed to load weights, using defaults", "error", err)
		return pool.New()
	}
	return p
}

// Package engine is the entry point of the review scheduling and
// proficiency estimation engine. It ties the scheduler, selector, level
// estimator and session composer to persistence.
package engine

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/clock"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/logging"
	"github.com/abhisek/lexiz/internal/metrics"
	"github.com/abhisek/lexiz/internal/profile"
	"github.com/abhisek/lexiz/internal/srs"
	"github.com/abhisek/lexiz/internal/store"
)

const tracerName = "github.com/abhisek/lexiz/internal/engine"

// Engine serves every learner-facing operation. It is safe for concurrent
// use; different users never contend.
type Engine struct {
	repo    store.Repository
	content content.Store
	clock   clock.Clock
	sched   *srs.Scheduler
	tuning  atomic.Pointer[config.Tuning]
	log     *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	profileLocks sync.Map // userID -> *sync.Mutex
	profiles     sync.Map // userID -> *profile.SkillProfile, last good load

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

type options struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	tp      trace.TracerProvider
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics sets the prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider sets the tracer provider. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

// New creates an engine.
func New(repo store.Repository, c content.Store, clk clock.Clock, tuning config.Tuning, opts ...Option) *Engine {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}
	log := logging.OrNop(o.log)

	e := &Engine{
		repo:    repo,
		content: c,
		clock:   clk,
		log:     log,
		metrics: o.metrics,
		tracer:  o.tp.Tracer(tracerName),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(clk.Now().UnixNano())), 0),
	}
	e.sched = srs.NewScheduler(repo, c, clk, tuning,
		srs.WithLogger(log.Named("srs")),
		srs.WithMetrics(o.metrics))
	e.tuning.Store(&tuning)
	return e
}

// Tuning returns the tables in use.
func (e *Engine) Tuning() config.Tuning {
	return *e.tuning.Load()
}

// SetTuning validates and swaps the tables used by later operations.
func (e *Engine) SetTuning(t config.Tuning) error {
	if err := t.Validate(); err != nil {
		return errs.Validation("tuning", "%v", err)
	}
	e.tuning.Store(&t)
	e.sched.SetTuning(t)
	e.log.Info("tuning updated")
	return nil
}

// Scheduler exposes the review scheduler.
func (e *Engine) Scheduler() *srs.Scheduler { return e.sched }

// ListUsers returns every user with a profile.
func (e *Engine) ListUsers(ctx context.Context) ([]string, error) {
	return e.repo.ListUsers(ctx)
}

// InitializeUser seeds review items at and below startLevel and creates
// the default profile. Calling it again adds only missing items and keeps
// the existing profile.
func (e *Engine) InitializeUser(ctx context.Context, userID string, startLevel cefr.Level) (err error) {
	ctx, span := e.start(ctx, "InitializeUser", userID)
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return errs.Validation("user_id", "must not be empty")
	}
	if !startLevel.Valid() {
		return errs.Validation("start_level", "unknown level %d", int(startLevel))
	}

	n, err := e.sched.Initialize(ctx, userID, startLevel)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("items.seeded", n))

	existing, err := e.repo.LoadSkillProfile(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		p := profile.Default(userID, startLevel, e.clock.Now())
		if err := e.saveProfile(ctx, p); err != nil && !errs.IsConflict(err) {
			return err
		}
	}
	e.log.Info("user initialized",
		zap.String("user", userID),
		zap.Stringer("level", startLevel),
		zap.Int("items_seeded", n))
	return nil
}

func (e *Engine) start(ctx context.Context, op, userID string) (context.Context, trace.Span) {
	ctx, span := e.tracer.Start(ctx, "engine."+op)
	if userID != "" {
		span.SetAttributes(attribute.String("user.id", userID))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *Engine) newID(now time.Time) string {
	e.idMu.Lock()
	defer e.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), e.entropy).String()
}

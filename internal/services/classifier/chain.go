package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/yungbote/plantdx-backend/internal/domain/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/domain/disease"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

const (
	MinTimeout     = 10 * time.Second
	MaxTimeout     = 30 * time.Second
	DefaultTimeout = MaxTimeout

	// FallbackName is recorded as the classifier when no member matched.
	FallbackName = "fallback"
)

// Attempt outcomes, also used as the metrics result label.
const (
	OutcomeMatch       = "match"
	OutcomeNoMatch     = "no_match"
	OutcomeError       = "error"
	OutcomeBreakerOpen = "breaker_open"
)

type FallbackMode string

const (
	FallbackUnknown FallbackMode = "unknown"
	FallbackGuess   FallbackMode = "guess"
)

func ParseFallbackMode(s string) (FallbackMode, error) {
	switch FallbackMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FallbackUnknown:
		return FallbackUnknown, nil
	case FallbackGuess:
		return FallbackGuess, nil
	default:
		return "", fmt.Errorf("unknown classifier fallback %q", s)
	}
}

// ClampTimeout keeps per-attempt timeouts inside [MinTimeout, MaxTimeout].
// Zero selects DefaultTimeout.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultTimeout
	case d < MinTimeout:
		return MinTimeout
	case d > MaxTimeout:
		return MaxTimeout
	default:
		return d
	}
}

// Member is one classifier in the chain with its own controls.
type Member struct {
	Classifier    Classifier
	MinConfidence float64
	Timeout       time.Duration
}

type ChainOptions struct {
	Table    *disease.Table
	Fallback FallbackMode
	Metrics  *observability.Metrics

	// BreakerFailures consecutive failures open a member's breaker; it
	// half-opens after BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Result is the outcome of running the chain over one image.
type Result struct {
	Entry      disease.Entry
	Classifier string
	Label      string
	Confidence float64
	Attempts   []diagnosis.Attempt
}

// Input builds the create input for a stored image, provenance included.
func (r Result) Input(imageURL string) diagnosis.CreateInput {
	in := r.Entry.Input(imageURL)
	in.Classifier = r.Classifier
	in.Label = r.Label
	in.Confidence = r.Confidence
	if len(r.Attempts) > 0 {
		if b, err := json.Marshal(r.Attempts); err == nil {
			in.Attempts = datatypes.JSON(b)
		}
	}
	return in
}

type member struct {
	Member
	breaker *gobreaker.CircuitBreaker
}

// Chain runs its members in order and returns the first confident match.
// Member failures are recorded, never returned.
type Chain struct {
	log      *logger.Logger
	matcher  *Matcher
	table    *disease.Table
	fallback FallbackMode
	metrics  *observability.Metrics
	members  []*member
}

// errClientGone marks an attempt aborted because the caller's own context
// ended; the breaker does not count it against the member.
var errClientGone = errors.New("request context done")

func NewChain(log *logger.Logger, opts ChainOptions, members ...Member) *Chain {
	if opts.Table == nil {
		opts.Table = disease.Default()
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackUnknown
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 3
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}
	c := &Chain{
		log:      log.With("service", "ClassifierChain"),
		matcher:  NewMatcher(opts.Table),
		table:    opts.Table,
		fallback: opts.Fallback,
		metrics:  opts.Metrics,
	}
	failures := opts.BreakerFailures
	for _, m := range members {
		if m.Classifier == nil {
			continue
		}
		m.Timeout = ClampTimeout(m.Timeout)
		name := m.Classifier.Name()
		cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     opts.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.log.Warn("classifier breaker state changed", "classifier", name, "from", from.String(), "to", to.String())
				c.metrics.SetBreakerState(name, int(to))
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errClientGone)
			},
		})
		c.metrics.SetBreakerState(name, int(gobreaker.StateClosed))
		c.members = append(c.members, &member{Member: m, breaker: cb})
	}
	return c
}

// Names lists member classifiers in chain order.
func (c *Chain) Names() []string {
	out := make([]string, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m.Classifier.Name())
	}
	return out
}

func (c *Chain) Classify(ctx context.Context, img Image) Result {
	var attempts []diagnosis.Attempt
	for _, m := range c.members {
		if ctx.Err() != nil {
			break
		}
		att, entry, ok := c.attempt(ctx, m, img)
		attempts = append(attempts, att)
		if ok {
			return Result{
				Entry:      entry,
				Classifier: att.Classifier,
				Label:      att.Label,
				Confidence: att.Confidence,
				Attempts:   attempts,
			}
		}
	}
	res := Result{Entry: c.fallbackEntry(img), Classifier: FallbackName, Attempts: attempts}
	c.log.Info("no classifier matched, using fallback", "mode", string(c.fallback), "attempts", len(attempts))
	return res
}

func (c *Chain) attempt(ctx context.Context, m *member, img Image) (diagnosis.Attempt, disease.Entry, bool) {
	name := m.Classifier.Name()
	ctx, span := observability.Tracer().Start(ctx, "classifier."+name)
	defer span.End()

	start := time.Now()
	att := diagnosis.Attempt{Classifier: name}
	var (
		entry   disease.Entry
		matched bool
	)

	out, err := m.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, m.Timeout)
		defer cancel()
		labels, err := m.Classifier.Classify(callCtx, img)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", errClientGone, err)
		}
		return labels, err
	})
	elapsed := time.Since(start)
	att.ElapsedMS = elapsed.Milliseconds()

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		att.Outcome = OutcomeBreakerOpen
		att.Error = err.Error()
	case err != nil:
		att.Outcome = OutcomeError
		att.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "classifier failed")
		c.log.Warn("classifier failed", "classifier", name, "error", err, "elapsed_ms", att.ElapsedMS)
	default:
		labels, _ := out.([]Label)
		var best Label
		entry, best, matched = c.pick(labels, m.MinConfidence)
		att.Outcome = OutcomeNoMatch
		if matched {
			att.Outcome = OutcomeMatch
			att.Label = best.Text
			att.Confidence = clampUnit(best.Score)
		}
		span.SetAttributes(attribute.Int("classifier.labels", len(labels)))
	}
	span.SetAttributes(attribute.String("classifier.outcome", att.Outcome))
	c.metrics.ObserveClassifierAttempt(name, att.Outcome, elapsed)
	return att, entry, matched
}

// pick returns the first label, in the order given, that maps onto the table
// with a score of at least minConf.
func (c *Chain) pick(labels []Label, minConf float64) (disease.Entry, Label, bool) {
	for _, l := range labels {
		if l.Score < minConf {
			continue
		}
		if e, ok := c.matcher.Match(l.Text); ok {
			return e, l, true
		}
	}
	return disease.Entry{}, Label{}, false
}

func (c *Chain) fallbackEntry(img Image) disease.Entry {
	if c.fallback != FallbackGuess {
		return c.table.Unknown()
	}
	known := c.table.Known()
	if len(known) == 0 {
		return c.table.Unknown()
	}
	sum := sha256.Sum256(img.Data)
	i := binary.BigEndian.Uint64(sum[:8]) % uint64(len(known))
	return known[i]
}

func clampUnit(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

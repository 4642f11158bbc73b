package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/plantdx-backend/internal/domain/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/domain/disease"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type fakeClassifier struct {
	name   string
	labels []Label
	err    error
	calls  atomic.Int32
	fn     func(ctx context.Context) ([]Label, error)
}

func (f *fakeClassifier) Name() string { return f.name }

func (f *fakeClassifier) Classify(ctx context.Context, _ Image) ([]Label, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(ctx)
	}
	return f.labels, f.err
}

func newTestChain(opts ChainOptions, members ...Member) *Chain {
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics()
	}
	return NewChain(logger.NewNop(), opts, members...)
}

func english(e disease.Entry) string { return e.Name.In(diagnosis.LangEnglish) }

func TestChainFirstConfidentMatchWins(t *testing.T) {
	first := &fakeClassifier{name: "first", err: errors.New("boom")}
	second := &fakeClassifier{name: "second", labels: []Label{{Text: "Tomato___Late_blight", Score: 0.9}}}
	third := &fakeClassifier{name: "third", labels: []Label{{Text: "Apple___Apple_scab", Score: 0.99}}}

	c := newTestChain(ChainOptions{}, Member{Classifier: first}, Member{Classifier: second}, Member{Classifier: third})
	res := c.Classify(context.Background(), Image{Data: []byte("img")})

	if got := english(res.Entry); got != "Tomato Late Blight" {
		t.Fatalf("entry=%q", got)
	}
	if res.Classifier != "second" || res.Label != "Tomato___Late_blight" || res.Confidence != 0.9 {
		t.Fatalf("provenance=%+v", res)
	}
	if third.calls.Load() != 0 {
		t.Fatalf("third classifier should not run")
	}
	if len(res.Attempts) != 2 || res.Attempts[0].Outcome != OutcomeError || res.Attempts[1].Outcome != OutcomeMatch {
		t.Fatalf("attempts=%+v", res.Attempts)
	}
}

func TestChainRespectsMinConfidence(t *testing.T) {
	low := &fakeClassifier{name: "low", labels: []Label{
		{Text: "Tomato___Late_blight", Score: 0.01},
		{Text: "Potato___Early_blight", Score: 0.2},
	}}
	c := newTestChain(ChainOptions{}, Member{Classifier: low, MinConfidence: 0.05})
	res := c.Classify(context.Background(), Image{})
	if got := english(res.Entry); got != "Potato Early Blight" {
		t.Fatalf("entry=%q", got)
	}

	none := &fakeClassifier{name: "none", labels: []Label{{Text: "Tomato___Late_blight", Score: 0.01}}}
	c = newTestChain(ChainOptions{}, Member{Classifier: none, MinConfidence: 0.05})
	res = c.Classify(context.Background(), Image{})
	if res.Classifier != FallbackName || res.Attempts[0].Outcome != OutcomeNoMatch {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestChainAllFailReturnsUnknown(t *testing.T) {
	a := &fakeClassifier{name: "a", err: errors.New("down")}
	b := &fakeClassifier{name: "b", labels: []Label{{Text: "golden retriever", Score: 0.9}}}
	c := newTestChain(ChainOptions{}, Member{Classifier: a}, Member{Classifier: b})

	res := c.Classify(context.Background(), Image{Data: []byte("x")})
	if res.Classifier != FallbackName {
		t.Fatalf("classifier=%q", res.Classifier)
	}
	if english(res.Entry) != disease.UnknownName || res.Entry.Severity != diagnosis.SeverityMedium || res.Entry.SeverityScore != 50 {
		t.Fatalf("entry=%+v", res.Entry)
	}
	in := res.Input("/uploads/x.jpg")
	if err := in.Validate(); err != nil {
		t.Fatalf("fallback input invalid: %v", err)
	}
	var atts []diagnosis.Attempt
	if err := json.Unmarshal(in.Attempts, &atts); err != nil || len(atts) != 2 {
		t.Fatalf("attempts=%s err=%v", in.Attempts, err)
	}
}

func TestChainNoMembers(t *testing.T) {
	c := newTestChain(ChainOptions{})
	res := c.Classify(context.Background(), Image{})
	if english(res.Entry) != disease.UnknownName || len(res.Attempts) != 0 {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestChainGuessFallbackIsDeterministic(t *testing.T) {
	a := &fakeClassifier{name: "a", err: errors.New("down")}
	c := newTestChain(ChainOptions{Fallback: FallbackGuess}, Member{Classifier: a})

	img := Image{Data: []byte("leaf-photo-bytes")}
	first := c.Classify(context.Background(), img)
	second := c.Classify(context.Background(), img)
	if english(first.Entry) != english(second.Entry) {
		t.Fatalf("guess not deterministic: %q vs %q", english(first.Entry), english(second.Entry))
	}
	if english(first.Entry) == disease.UnknownName {
		t.Fatalf("guess should never be Unknown")
	}
	if first.Classifier != FallbackName {
		t.Fatalf("classifier=%q", first.Classifier)
	}
}

func TestChainBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	flaky := &fakeClassifier{name: "flaky", err: errors.New("503")}
	c := newTestChain(ChainOptions{BreakerFailures: 3, BreakerCooldown: time.Hour}, Member{Classifier: flaky})

	for i := 0; i < 3; i++ {
		res := c.Classify(context.Background(), Image{})
		if res.Attempts[0].Outcome != OutcomeError {
			t.Fatalf("attempt %d outcome=%s", i, res.Attempts[0].Outcome)
		}
	}
	res := c.Classify(context.Background(), Image{})
	if res.Attempts[0].Outcome != OutcomeBreakerOpen {
		t.Fatalf("expected open breaker, got %s", res.Attempts[0].Outcome)
	}
	if flaky.calls.Load() != 3 {
		t.Fatalf("calls=%d want 3", flaky.calls.Load())
	}
}

func TestChainNoMatchDoesNotTripBreaker(t *testing.T) {
	dull := &fakeClassifier{name: "dull", labels: []Label{{Text: "sky", Score: 0.9}}}
	c := newTestChain(ChainOptions{BreakerFailures: 1, BreakerCooldown: time.Hour}, Member{Classifier: dull})
	for i := 0; i < 3; i++ {
		if out := c.Classify(context.Background(), Image{}).Attempts[0].Outcome; out != OutcomeNoMatch {
			t.Fatalf("outcome=%s", out)
		}
	}
}

func TestChainClientCancelDoesNotTripBreaker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := &fakeClassifier{name: "slow", fn: func(callCtx context.Context) ([]Label, error) {
		cancel()
		<-callCtx.Done()
		return nil, callCtx.Err()
	}}
	c := newTestChain(ChainOptions{BreakerFailures: 1, BreakerCooldown: time.Hour}, Member{Classifier: slow})
	res := c.Classify(ctx, Image{})
	if res.Attempts[0].Outcome != OutcomeError {
		t.Fatalf("outcome=%s", res.Attempts[0].Outcome)
	}

	slow.fn = nil
	slow.labels = []Label{{Text: "Tomato___healthy", Score: 1}}
	res = c.Classify(context.Background(), Image{})
	if res.Attempts[0].Outcome != OutcomeMatch {
		t.Fatalf("breaker tripped on client cancel: %s", res.Attempts[0].Outcome)
	}
}

func TestClampTimeout(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		0:                DefaultTimeout,
		time.Second:      MinTimeout,
		15 * time.Second: 15 * time.Second,
		time.Minute:      MaxTimeout,
	}
	for in, want := range cases {
		if got := ClampTimeout(in); got != want {
			t.Fatalf("ClampTimeout(%s)=%s want %s", in, got, want)
		}
	}
}

func TestParseFallbackMode(t *testing.T) {
	if m, err := ParseFallbackMode(""); err != nil || m != FallbackUnknown {
		t.Fatalf("empty: %v %v", m, err)
	}
	if m, err := ParseFallbackMode("Guess"); err != nil || m != FallbackGuess {
		t.Fatalf("guess: %v %v", m, err)
	}
	if _, err := ParseFallbackMode("random"); err == nil {
		t.Fatalf("expected error")
	}
}

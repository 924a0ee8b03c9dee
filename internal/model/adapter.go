package model

import (
	"context"
	"log/slog"
	"time"

	"github.com/crednova/credit-engine/internal/scoring"
)

// DefaultInferenceTimeout bounds one ensemble inference. Inference is
// in-memory and normally microseconds; the timeout exists so a
// pathological artifact degrades to the fallback instead of stalling
// the request.
const DefaultInferenceTimeout = 500 * time.Millisecond

// Adapter implements scoring.ProbabilityModel around a loaded
// artifact. It never propagates a failure: a missing artifact, a
// panic during inference, a timeout, or an open breaker all resolve
// to the rule-based fallback, tagged through ModelVersion.
type Adapter struct {
	artifact *Artifact
	timeout  time.Duration
	breaker  *breaker
	logger   *slog.Logger
	onFallback func()
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithTimeout overrides the inference timeout.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.timeout = d }
}

// WithFallbackHook registers a callback invoked every time the
// fallback path is taken (metrics counting).
func WithFallbackHook(hook func()) AdapterOption {
	return func(a *Adapter) { a.onFallback = hook }
}

// WithLogger overrides the adapter logger.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// NewAdapter wraps an artifact. A nil artifact is valid and puts the
// adapter in permanent fallback mode.
func NewAdapter(artifact *Artifact, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		artifact: artifact,
		timeout:  DefaultInferenceTimeout,
		breaker:  newBreaker(3, 30*time.Second),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type inferenceResult struct {
	prob          float64
	base          float64
	contributions map[string]float64
	exact         bool
}

// Predict estimates the 90dpd default probability. It always returns
// a fully resolved prediction; failures are logged and counted, never
// surfaced.
func (a *Adapter) Predict(ctx context.Context, features map[string]float64) scoring.Prediction {
	if a.artifact == nil {
		return a.fallback(features, "no model artifact configured")
	}
	if !a.breaker.allow() {
		return a.fallback(features, "model breaker open")
	}

	resCh := make(chan inferenceResult, 1)
	panicCh := make(chan any, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				panicCh <- r
			}
		}()
		prob, base, contributions, exact := a.artifact.PredictWithAttribution(features)
		resCh <- inferenceResult{prob: prob, base: base, contributions: contributions, exact: exact}
	}()

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		a.breaker.success()
		return scoring.Prediction{
			Probability:   res.prob,
			ModelVersion:  a.artifact.Version,
			BaseValue:     res.base,
			Contributions: res.contributions,
			Explained:     res.exact,
		}
	case r := <-panicCh:
		a.breaker.failure()
		a.logger.Error("model inference panicked", "panic", r, "model_version", a.artifact.Version)
		return a.fallback(features, "inference panic")
	case <-ctx.Done():
		a.breaker.failure()
		return a.fallback(features, "request context done")
	case <-timer.C:
		a.breaker.failure()
		return a.fallback(features, "inference timeout")
	}
}

func (a *Adapter) fallback(features map[string]float64, reason string) scoring.Prediction {
	a.logger.Warn("using rule-based fallback estimate", "reason", reason)
	if a.onFallback != nil {
		a.onFallback()
	}
	return scoring.Prediction{
		Probability:  FallbackProbability(features),
		ModelVersion: FallbackVersion,
		Explained:    false,
	}
}

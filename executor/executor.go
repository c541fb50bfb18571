package executor

import (
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/models"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"
)

const (
	// DefaultTimeout bounds one client run.
	DefaultTimeout = 15 * time.Second
	// DefaultDelay is slept on the worker before each attempt.
	DefaultDelay = 200 * time.Millisecond
	// authOnlyFlag makes the client exit right after the credential check.
	authOnlyFlag = "+auth-only"
	// waitDelay bounds how long Wait may block once the client was killed.
	waitDelay = 2 * time.Second
)

// Attempter tests one combination. Implementations must never panic and
// report every fault through the returned result.
type Attempter interface {
	Attempt(ctx context.Context, c models.Combination) models.AttemptResult
}

// Config defines the executor settings resolved once at startup.
type Config struct {
	Binary    string        // Client binary, DefaultBinary when empty.
	Domain    string        // Domain passed with /d:, "." when empty.
	Timeout   time.Duration // Deadline per attempt.
	Delay     time.Duration // Pause before each attempt.
	ExtraArgs []string      // Additional client flags appended after the fixed ones.
}

// RDPExecutor runs the external FreeRDP client in authentication-only mode.
type RDPExecutor struct {
	binary    string
	domain    string
	timeout   time.Duration
	delay     time.Duration
	extraArgs []string
}

// New returns a new *RDPExecutor with defaults applied.
func New(cfg Config) *RDPExecutor {
	e := &RDPExecutor{
		binary:    cfg.Binary,
		domain:    cfg.Domain,
		timeout:   cfg.Timeout,
		delay:     cfg.Delay,
		extraArgs: append([]string(nil), cfg.ExtraArgs...),
	}
	if e.binary == "" {
		e.binary = DefaultBinary
	}
	if e.domain == "" {
		e.domain = models.DefaultDomain
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.delay < 0 {
		e.delay = 0
	}
	return e
}

// Binary returns the client binary in use.
func (e *RDPExecutor) Binary() string {
	return e.binary
}

// Domain returns the domain passed to the client.
func (e *RDPExecutor) Domain() string {
	return e.domain
}

// Args builds the client argument vector. Values are passed as discrete
// arguments, no shell is involved.
func (e *RDPExecutor) Args(c models.Combination) []string {
	args := []string{
		"/v:" + c.Target.String(),
		"/u:" + c.Username,
		"/p:" + c.Password,
		"/d:" + e.domain,
		authOnlyFlag,
	}
	return append(args, e.extraArgs...)
}

// Attempt sleeps for the configured delay and runs the client once.
func (e *RDPExecutor) Attempt(ctx context.Context, c models.Combination) models.AttemptResult {
	res := models.AttemptResult{Combination: c}

	if err := sleep(ctx, e.delay); err != nil {
		res.Reason = models.ReasonCancelled
		return res
	}

	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var killed atomic.Bool
	cmd := exec.CommandContext(attemptCtx, e.binary, e.Args(c)...)
	cmd.Cancel = func() error {
		err := cmd.Process.Kill()
		if err == nil {
			killed.Store(true)
		}
		return err
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)

	if err == nil {
		res.Succeeded = true
	} else {
		res.Reason = classify(ctx, err, killed.Load())
	}

	logrus.Debugf("Attempt %s as %s finished in %v (succeeded=%t reason=%q)",
		c.Target, c.Username, res.Duration, res.Succeeded, res.Reason)
	return res
}

// classify turns a failed client run into a result reason. The exit code
// wins unless the client was killed by its context, in which case the
// parent context tells a stopped run apart from a deadline.
func classify(ctx context.Context, err error, killed bool) string {
	var exitErr *exec.ExitError
	switch {
	case killed || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		if ctx.Err() != nil {
			return models.ReasonCancelled
		}
		return models.ReasonTimeout
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		return strconv.Itoa(exitErr.ExitCode())
	default:
		return err.Error()
	}
}

// sleep waits for d unless the context is done first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

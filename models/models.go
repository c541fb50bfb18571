package models

import (
	"fmt"
	"time"
)

// DefaultPort is the RDP port used when a target line carries none.
const DefaultPort = "3389"

// DefaultDomain is the domain passed to the client when none is configured.
const DefaultDomain = "."

// ReasonTimeout marks an attempt whose client was killed at the deadline.
const ReasonTimeout = "timeout"

// ReasonCancelled marks an attempt abandoned because the run was stopped.
// Such results are not counted.
const ReasonCancelled = "cancelled"

// Target holds an address and port to authenticate against.
// The port is kept exactly as read so that unusual values reach the client untouched.
type Target struct {
	Address string `json:"address"`
	Port    string `json:"port"`
}

// String returns the address:port form handed to the client.
func (t Target) String() string {
	return t.Address + ":" + t.Port
}

// Combination defines one unit of work.
type Combination struct {
	Target   Target `json:"target"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AttemptResult defines the outcome of a single attempt.
type AttemptResult struct {
	Combination Combination   `json:"combination"`
	Succeeded   bool          `json:"succeeded"`
	Reason      string        `json:"reason,omitempty"` // exit code, "timeout" or the launch fault
	Duration    time.Duration `json:"duration"`
}

// TimedOut reports whether the attempt hit its deadline.
func (r AttemptResult) TimedOut() bool {
	return !r.Succeeded && r.Reason == ReasonTimeout
}

// Cancelled reports whether the attempt was abandoned before it could complete.
func (r AttemptResult) Cancelled() bool {
	return !r.Succeeded && r.Reason == ReasonCancelled
}

// SuccessRecord formats a working combination the way it is persisted.
func SuccessRecord(c Combination, domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	return fmt.Sprintf("%s:%s /d:%s | %s | %s", c.Target.Address, c.Target.Port, domain, c.Username, c.Password)
}

// Stats summarises a run.
type Stats struct {
	Attempts  int           `json:"attempts"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Timeouts  int           `json:"timeouts"`
	Batches   int           `json:"batches"`
	Duration  time.Duration `json:"duration"`
}

// Add folds a single result into the counters. Cancelled results are ignored.
func (s *Stats) Add(r AttemptResult) {
	if r.Cancelled() {
		return
	}
	s.Attempts++
	switch {
	case r.Succeeded:
		s.Succeeded++
	case r.TimedOut():
		s.Timeouts++
		s.Failed++
	default:
		s.Failed++
	}
}

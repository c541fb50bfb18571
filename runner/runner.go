package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/config"
	"go-rdpaudit/database"
	"go-rdpaudit/executor"
	"go-rdpaudit/models"
	pc "go-rdpaudit/port-check"
	"go-rdpaudit/scheduler"
	"go-rdpaudit/sink"
	"go-rdpaudit/source"
	"gorm.io/datatypes"
	"io"
	"os"
	"time"
)

// ErrNoTargets is returned when no line of the targets file is usable.
var ErrNoTargets = errors.New("no valid targets")

// Report defines the outcome of a run. Persistence failures are reported
// separately from the scan itself.
type Report struct {
	Stats     models.Stats `json:"stats"`
	Records   []string     `json:"records"`
	RunID     uint         `json:"run_id,omitempty"`
	ScanErr   error        `json:"-"` // set when the run was interrupted
	OutputErr error        `json:"-"` // set when the output file could not be written
	LedgerErr error        `json:"-"` // set when the run could not be stored
}

// Err joins every error of the report.
func (r *Report) Err() error {
	return errors.Join(r.ScanErr, r.OutputErr, r.LedgerErr)
}

// Manager defines the run manager tying the source, the worker pool and the sinks together.
type Manager struct {
	cfg       config.Config
	attempter executor.Attempter
	db        *database.DB // nil disables the ledger
	out       io.Writer
}

// NewManager initializes a new *Manager.
func NewManager(cfg config.Config, a executor.Attempter, db *database.DB) *Manager {
	return &Manager{
		cfg:       cfg,
		attempter: a,
		db:        db,
		out:       os.Stdout,
	}
}

// SetOutput redirects console output.
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// input defines the lists a run works on.
type input struct {
	targets   []models.Target
	users     []string
	passwords []string
}

// load reads the three lists. Every unreadable or empty list is reported.
func (m *Manager) load(ctx context.Context) (input, error) {
	var in input

	targetLines, errT := source.ReadLines(m.cfg.Targets)
	users, errU := source.ReadLines(m.cfg.Users)
	passwords, errP := source.ReadLines(m.cfg.Passwords)
	if err := errors.Join(errT, errU, errP); err != nil {
		return in, err
	}

	in.targets = source.ParseTargets(targetLines)
	if m.cfg.Precheck.Enabled && len(in.targets) > 0 {
		checker := &pc.PortChecker{Timeout: m.cfg.Precheck.Timeout, Workers: m.cfg.Workers}
		in.targets = checker.Run(ctx, in.targets)
	}
	if len(in.targets) == 0 {
		return in, fmt.Errorf("%s: %w", m.cfg.Targets, ErrNoTargets)
	}
	in.users = users
	in.passwords = passwords
	return in, nil
}

// Run performs the whole audit. The returned error is only set when the
// run could not start; everything after that is described by the report.
func (m *Manager) Run(ctx context.Context) (*Report, error) {
	in, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	total := source.Count(in.targets, in.users, in.passwords)
	logrus.Infof("Loaded %d targets, %d users, %d passwords (%d combinations)",
		len(in.targets), len(in.users), len(in.passwords), total)

	collector := sink.NewCollector(m.cfg.Domain)
	console := sink.NewConsole(total)
	console.SetWriter(m.out)

	started := time.Now()
	sched := scheduler.New(m.attempter, m.cfg.Scheduler(), collector, console)
	stats, scanErr := sched.Run(ctx, source.Generate(in.targets, in.users, in.passwords))
	finished := time.Now()

	report := &Report{
		Stats:   stats,
		Records: collector.Records(),
		ScanErr: scanErr,
	}
	if scanErr != nil {
		logrus.Warnf("Run interrupted after %d attempts: %v", stats.Attempts, scanErr)
	}

	if err := collector.Flush(m.cfg.Output); err != nil {
		logrus.Errorf("Failed to write results: %v", err)
		report.OutputErr = err
	} else if n := collector.Len(); n > 0 {
		logrus.Infof("Wrote %d records to %s", n, m.cfg.Output)
	}

	if m.db != nil {
		run := m.runRecord(stats, collector, started, finished, scanErr != nil)
		if err := m.db.SaveRun(run); err != nil {
			logrus.Errorf("Failed to save run: %v", err)
			report.LedgerErr = err
		} else {
			report.RunID = run.ID
		}
	}

	if err := console.Summary(stats, report.Records); err != nil {
		logrus.Debugf("Failed to render summary: %v", err)
	}
	return report, nil
}

// runRecord prepares the ledger entry of a run.
func (m *Manager) runRecord(stats models.Stats, c *sink.Collector, started, finished time.Time, cancelled bool) *database.RunDB {
	settings, err := json.Marshal(struct {
		Targets   string        `json:"targets"`
		Users     string        `json:"users"`
		Passwords string        `json:"passwords"`
		Timeout   time.Duration `json:"timeout"`
		Workers   int           `json:"workers"`
		BatchSize int           `json:"batch_size"`
		Delay     time.Duration `json:"delay"`
		Domain    string        `json:"domain"`
		Binary    string        `json:"binary"`
	}{
		m.cfg.Targets, m.cfg.Users, m.cfg.Passwords, m.cfg.Timeout,
		m.cfg.Workers, m.cfg.BatchSize, m.cfg.Delay, c.Domain(), m.cfg.Binary,
	})
	if err != nil {
		settings = []byte("{}")
	}

	run := &database.RunDB{
		StartedAt:  started,
		FinishedAt: finished,
		Attempts:   stats.Attempts,
		Succeeded:  stats.Succeeded,
		Failed:     stats.Failed,
		Timeouts:   stats.Timeouts,
		Cancelled:  cancelled,
		Settings:   datatypes.JSON(settings),
	}
	for _, comb := range c.Found() {
		run.Successes = append(run.Successes, database.SuccessDB{
			Address:  comb.Target.Address,
			Port:     comb.Target.Port,
			Domain:   c.Domain(),
			Username: comb.Username,
			Password: comb.Password,
			Record:   models.SuccessRecord(comb, c.Domain()),
		})
	}
	return run
}

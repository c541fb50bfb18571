package sink

import (
	"fmt"
	"go-rdpaudit/models"
	"os"
	"strings"
	"sync"
)

// Collector owns the list of successful combinations found during a run.
type Collector struct {
	domain string

	mu      sync.Mutex
	found   []models.Combination
	records []string
}

// NewCollector returns a new *Collector formatting records with domain.
func NewCollector(domain string) *Collector {
	if domain == "" {
		domain = models.DefaultDomain
	}
	return &Collector{domain: domain}
}

// Record keeps res if it succeeded. Records stay in completion order.
func (c *Collector) Record(res models.AttemptResult) {
	if !res.Succeeded {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.found = append(c.found, res.Combination)
	c.records = append(c.records, models.SuccessRecord(res.Combination, c.domain))
}

// Records returns a copy of the formatted success records.
func (c *Collector) Records() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.records...)
}

// Found returns a copy of the successful combinations.
func (c *Collector) Found() []models.Combination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Combination(nil), c.found...)
}

// Domain returns the domain used in records.
func (c *Collector) Domain() string {
	return c.domain
}

// Len returns the number of successes collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Flush appends every record to path, one per line, in a single write.
// The in-memory records are kept whatever the outcome.
func (c *Collector) Flush(path string) error {
	records := c.Records()
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	for _, r := range records {
		b.WriteString(r)
		b.WriteByte('\n')
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output %s: %w", path, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

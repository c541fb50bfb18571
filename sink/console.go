package sink

import (
	"fmt"
	"github.com/pterm/pterm"
	"go-rdpaudit/models"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Console prints a progress line per attempt.
type Console struct {
	total int
	done  atomic.Int64

	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a new *Console. total is the expected number of
// attempts, 0 when unknown.
func NewConsole(total int) *Console {
	return &Console{total: total, out: os.Stdout}
}

// SetWriter redirects the console output.
func (c *Console) SetWriter(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = w
}

// Record prints the outcome of res.
func (c *Console) Record(res models.AttemptResult) {
	n := c.done.Add(1)

	progress := fmt.Sprintf("%d", n)
	if c.total > 0 {
		progress = fmt.Sprintf("%d/%d", n, c.total)
	}

	comb := res.Combination
	line := fmt.Sprintf("[%s] %s | Username: %s | Password: %s", progress, comb.Target, comb.Username, comb.Password)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case res.Succeeded:
		pterm.Success.WithWriter(c.out).Println(line)
	case res.TimedOut():
		pterm.Warning.WithWriter(c.out).Println(line + " | timeout")
	default:
		pterm.Info.WithWriter(c.out).Println(line + " | failed (" + res.Reason + ")")
	}
}

// Summary prints the run counters and every success record as tables.
func (c *Console) Summary(stats models.Stats, records []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := pterm.TableData{
		{"Attempts", "Succeeded", "Failed", "Timeouts", "Batches", "Duration"},
		{
			fmt.Sprint(stats.Attempts),
			fmt.Sprint(stats.Succeeded),
			fmt.Sprint(stats.Failed),
			fmt.Sprint(stats.Timeouts),
			fmt.Sprint(stats.Batches),
			stats.Duration.Round(time.Millisecond).String(),
		},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(c.out).WithData(data).Render(); err != nil {
		return err
	}

	if len(records) == 0 {
		pterm.Warning.WithWriter(c.out).Println("No valid credentials found.")
		return nil
	}
	rows := pterm.TableData{{"Valid credentials"}}
	for _, r := range records {
		rows = append(rows, []string{r})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(c.out).WithData(rows).Render()
}

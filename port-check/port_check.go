package port_check

import (
	"context"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/models"
	"net"
	"sync"
	"time"
)

// PortChecker drops targets whose RDP port does not accept TCP connections.
type PortChecker struct {
	Timeout time.Duration // Timeout per dial.
	Workers int           // Concurrent dials.
}

// worker dials every target received on targetChan.
func (pc *PortChecker) worker(ctx context.Context, targetChan <-chan int, targets []models.Target, open []bool, wg *sync.WaitGroup) {
	defer wg.Done()
	var dialer net.Dialer
	for idx := range targetChan {
		target := targets[idx]

		dialCtx, cancelDial := context.WithTimeout(ctx, pc.Timeout)
		startTime := time.Now()
		conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(target.Address, target.Port))
		duration := time.Since(startTime)
		cancelDial()

		if err != nil {
			logrus.Warnf("Skipping target %s: port closed (%v, in %v)", target, err, duration)
			continue
		}
		conn.Close()
		open[idx] = true
		logrus.Debugf("Target %s reachable (in %v)", target, duration)
	}
}

// Run returns the reachable targets, in their original order.
func (pc *PortChecker) Run(ctx context.Context, targets []models.Target) []models.Target {
	workers := pc.Workers
	if workers <= 0 {
		workers = 1
	}
	if pc.Timeout <= 0 {
		pc.Timeout = 3 * time.Second
	}

	open := make([]bool, len(targets))
	targetChan := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go pc.worker(ctx, targetChan, targets, open, &wg)
	}

	// Producer: enqueue every target index.
produce:
	for i := range targets {
		select {
		case <-ctx.Done():
			break produce
		case targetChan <- i:
		}
	}
	close(targetChan)
	wg.Wait()

	reachable := make([]models.Target, 0, len(targets))
	for i, t := range targets {
		if open[i] {
			reachable = append(reachable, t)
		}
	}
	logrus.Infof("%d of %d targets reachable", len(reachable), len(targets))
	return reachable
}

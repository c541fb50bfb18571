package source

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/models"
	"iter"
	"os"
	"strings"
)

// maxLineSize bounds a single list line.
const maxLineSize = 1 << 20

var (
	// ErrInvalidTarget is returned for target lines with an empty address or port.
	ErrInvalidTarget = errors.New("invalid target line")
	// ErrEmptyList is returned when a list file holds no usable lines.
	ErrEmptyList = errors.New("list is empty")
)

// ParseTarget parses a raw "address" or "address:port" line.
// Only the first colon splits; anything after it is the port, numeric or not.
func ParseTarget(line string) (models.Target, error) {
	addr, port, found := strings.Cut(line, ":")
	addr = strings.TrimSpace(addr)
	if !found {
		if addr == "" {
			return models.Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, line)
		}
		return models.Target{Address: addr, Port: models.DefaultPort}, nil
	}

	port = strings.TrimSpace(port)
	if addr == "" || port == "" {
		return models.Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, line)
	}
	return models.Target{Address: addr, Port: port}, nil
}

// ParseTargets parses every line, skipping the malformed ones.
func ParseTargets(lines []string) []models.Target {
	targets := make([]models.Target, 0, len(lines))
	for _, line := range lines {
		t, err := ParseTarget(line)
		if err != nil {
			logrus.Warnf("Skipping target: %v", err)
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// ReadLines reads a list file, trimming each line and dropping blank ones.
// Lines longer than 1 MiB make the whole list unreadable.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyList)
	}
	return lines, nil
}

// Generate returns the lazy cross product of targets, users and passwords.
// Passwords form the outer loop and targets the inner one, so a password is
// sprayed over every target for one user before the next user is tried.
func Generate(targets []models.Target, users, passwords []string) iter.Seq[models.Combination] {
	return func(yield func(models.Combination) bool) {
		for _, password := range passwords {
			for _, user := range users {
				for _, target := range targets {
					if !yield(models.Combination{Target: target, Username: user, Password: password}) {
						return
					}
				}
			}
		}
	}
}

// Count returns how many combinations Generate yields.
func Count(targets []models.Target, users, passwords []string) int {
	return len(targets) * len(users) * len(passwords)
}

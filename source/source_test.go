package source

import (
	"bufio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-rdpaudit/models"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		line    string
		want    models.Target
		invalid bool
	}{
		{line: "10.0.0.5", want: models.Target{Address: "10.0.0.5", Port: "3389"}},
		{line: "10.0.0.5:3390", want: models.Target{Address: "10.0.0.5", Port: "3390"}},
		{line: "  host.local : 3391 ", want: models.Target{Address: "host.local", Port: "3391"}},
		{line: "10.0.0.5:rdp", want: models.Target{Address: "10.0.0.5", Port: "rdp"}},
		{line: "fe80::1", want: models.Target{Address: "fe80", Port: ":1"}},
		{line: "10.0.0.5:", invalid: true},
		{line: ":3390", invalid: true},
		{line: "", invalid: true},
		{line: "   ", invalid: true},
		{line: " : ", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseTarget(tt.line)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargets_SkipsInvalid(t *testing.T) {
	got := ParseTargets([]string{"a", "10.0.0.5:", "b:9999", ":1"})
	assert.Equal(t, []models.Target{
		{Address: "a", Port: "3389"},
		{Address: "b", Port: "9999"},
	}, got)
}

func TestGenerate_CountAndUniqueness(t *testing.T) {
	targets := ParseTargets([]string{"t1", "t2", "t3:3390"})
	users := []string{"u1", "u2"}
	passwords := []string{"p1", "p2", "p3", "p4"}

	seen := make(map[models.Combination]int)
	for c := range Generate(targets, users, passwords) {
		seen[c]++
	}

	assert.Len(t, seen, Count(targets, users, passwords))
	assert.Equal(t, 24, len(seen))
	for c, n := range seen {
		assert.Equal(t, 1, n, "duplicate %v", c)
	}
	for _, tg := range targets {
		for _, u := range users {
			for _, p := range passwords {
				assert.Contains(t, seen, models.Combination{Target: tg, Username: u, Password: p})
			}
		}
	}
}

func TestGenerate_PasswordMajorOrder(t *testing.T) {
	targets := ParseTargets([]string{"a", "b"})
	users := []string{"u1", "u2"}
	passwords := []string{"p1", "p2"}

	var got []models.Combination
	for c := range Generate(targets, users, passwords) {
		got = append(got, c)
	}

	a, b := targets[0], targets[1]
	want := []models.Combination{
		{Target: a, Username: "u1", Password: "p1"},
		{Target: b, Username: "u1", Password: "p1"},
		{Target: a, Username: "u2", Password: "p1"},
		{Target: b, Username: "u2", Password: "p1"},
		{Target: a, Username: "u1", Password: "p2"},
		{Target: b, Username: "u1", Password: "p2"},
		{Target: a, Username: "u2", Password: "p2"},
		{Target: b, Username: "u2", Password: "p2"},
	}
	assert.Equal(t, want, got)

	// Every combination of an earlier password precedes every one of a later password.
	lastP1 := -1
	firstP2 := len(got)
	for i, c := range got {
		if c.Password == "p1" {
			lastP1 = i
		}
		if c.Password == "p2" && i < firstP2 {
			firstP2 = i
		}
	}
	assert.Less(t, lastP1, firstP2)
}

func TestGenerate_Restartable(t *testing.T) {
	seq := Generate(ParseTargets([]string{"a"}), []string{"u"}, []string{"p1", "p2"})

	var first, second []models.Combination
	for c := range seq {
		first = append(first, c)
		break
	}
	for c := range seq {
		second = append(second, c)
	}

	require.Len(t, first, 1)
	require.Len(t, second, 2)
	assert.Equal(t, first[0], second[0])
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "users.txt")
	require.NoError(t, os.WriteFile(path, []byte("admin\r\n\n  guest  \n\t\nroot"), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "guest", "root"}, lines)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n \n"), 0o644))
	_, err = ReadLines(empty)
	assert.ErrorIs(t, err, ErrEmptyList)

	_, err = ReadLines(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadLines_LongLine(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("x", 200*1024)

	path := filepath.Join(dir, "passwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("short\n"+long+"\nlast\n"), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, long, lines[1])

	tooLong := filepath.Join(dir, "huge.txt")
	require.NoError(t, os.WriteFile(tooLong, []byte(strings.Repeat("x", maxLineSize+1)), 0o644))
	_, err = ReadLines(tooLong)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

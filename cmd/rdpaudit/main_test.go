package main

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "rdpaudit dev")
}

func TestRunCmd_MissingClientStillCompletes(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	output := filepath.Join(dir, "good.txt")

	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"run",
		"--targets", write("ip.txt", "127.0.0.1\n"),
		"--users", write("users.txt", "admin\n"),
		"--passwords", write("passwords.txt", "a\nb\n"),
		"--output", output,
		"--binary", filepath.Join(dir, "no-such-client"),
		"--delay", "0s",
		"--db", "",
		"--log-level", "error",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 30, appCfg.Workers)
	assert.Equal(t, time.Duration(0), appCfg.Delay)
	assert.Equal(t, output, appCfg.Output)

	_, err := os.Stat(output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunCmd_MissingLists(t *testing.T) {
	dir := t.TempDir()

	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"run",
		"--targets", filepath.Join(dir, "ip.txt"),
		"--users", filepath.Join(dir, "users.txt"),
		"--passwords", filepath.Join(dir, "passwords.txt"),
		"--db", "",
		"--log-level", "error",
	})

	err := cmd.Execute()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package executor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Include stderr in error message for debugging
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}

// ExecuteStream runs an external command and delivers each output line to
// onLine. Stdout and stderr are merged because tools like ffmpeg write
// progress to either stream depending on flags. The last lines are kept
// for error reporting.
func (e *implExecutor) ExecuteStream(ctx context.Context, onLine LineHandler, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("command '%s' stdout pipe: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("command '%s' stderr pipe: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("command '%s' start: %w", name, err)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var tail []string

	scan := func(r io.Reader) {
		defer wg.Done()
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			mu.Lock()
			if len(tail) >= 20 {
				tail = tail[1:]
			}
			tail = append(tail, line)
			if onLine != nil {
				onLine(line)
			}
			mu.Unlock()
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		last := strings.TrimSpace(strings.Join(tail, "\n"))
		if last != "" {
			return fmt.Errorf("command '%s' failed: %w\noutput: %s", name, err, last)
		}
		return fmt.Errorf("command '%s' failed: %w", name, err)
	}
	return nil
}

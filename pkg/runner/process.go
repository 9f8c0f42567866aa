/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	utilexec "k8s.io/utils/exec"

	"github.com/m8s-dev/m8s/pkg/defaults"
	"github.com/m8s-dev/m8s/pkg/errors"
)

// Run spawns c, echoes its output and waits for it to exit. A non-zero exit
// returns an EXECUTION_FAILED error whose message is the child's stderr.
// The context is only used for logging; a started process is never killed.
func (r *Runner) Run(ctx context.Context, c Command) error {
	slog.DebugContext(ctx, "running command", "command", c.String(), "dryRun", r.dryRun)

	if r.dryRun {
		commandTotal.WithLabelValues(c.Program, "dry_run").Inc()
		return nil
	}

	start := time.Now()
	err := r.run(c)
	commandDuration.WithLabelValues(c.Program).Observe(time.Since(start).Seconds())
	if err != nil {
		commandTotal.WithLabelValues(c.Program, "error").Inc()
		return err
	}
	commandTotal.WithLabelValues(c.Program, "success").Inc()
	return nil
}

func (r *Runner) run(c Command) error {
	cmd := r.command(c)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to open stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to open stderr pipe", err)
	}

	if err := cmd.Start(); err != nil {
		code := errors.ErrCodeExecutionFailed
		if stderrors.Is(err, utilexec.ErrExecutableNotFound) {
			code = errors.ErrCodeUnavailable
		}
		return errors.WrapWithContext(code, fmt.Sprintf("failed to start %s", c.Program), err,
			map[string]any{"command": c.String()})
	}

	stdoutText := make(chan string, 1)
	stderrText := make(chan string, 1)

	var g errgroup.Group
	g.Go(func() error { return drain(stdout, r.stdout, stdoutText) })
	g.Go(func() error { return drain(stderr, r.stderr, stderrText) })
	readErr := g.Wait()

	<-stdoutText
	captured := <-stderrText

	waitErr := cmd.Wait()
	if waitErr != nil {
		return exitError(c, captured, waitErr)
	}
	if readErr != nil {
		return errors.WrapWithContext(errors.ErrCodeExecutionFailed,
			fmt.Sprintf("failed to read output of %s", c.Program), readErr,
			map[string]any{"command": c.String()})
	}
	return nil
}

// drain echoes every line of src to echo and hands the accumulated text to
// out once src is exhausted. Lines have no length limit, so the child never
// blocks on a pipe nobody reads.
func drain(src io.Reader, echo io.Writer, out chan<- string) error {
	var buf strings.Builder
	defer func() { out <- buf.String() }()

	reader := bufio.NewReaderSize(src, defaults.OutputReadBufferBytes)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			_, _ = io.WriteString(echo, line)
			buf.WriteString(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Keep the pipe empty so the child can still exit.
			_, _ = io.Copy(io.Discard, src)
			return err
		}
	}
}

func exitError(c Command, stderr string, err error) error {
	details := map[string]any{"command": c.String()}

	var exitErr utilexec.ExitError
	if stderrors.As(err, &exitErr) {
		details["exitCode"] = exitErr.ExitStatus()
	}

	message := strings.TrimRight(stderr, "\n")
	if message == "" {
		message = fmt.Sprintf("%s failed without output", c.Program)
	}
	return errors.WrapWithContext(errors.ErrCodeExecutionFailed, message, err, details)
}

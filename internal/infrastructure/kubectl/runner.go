package kubectl

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kusage/internal/domain"
	"github.com/HaPhanBaoMinh/kusage/internal/infrastructure/k8s"
)

const DefaultBinary = "kubectl"

// Runner shells out to `kubectl top pods`.
type Runner struct {
	binary string
	target k8s.Target
	log    *zap.Logger

	// command is swapped in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func New(binary string, target k8s.Target, log *zap.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{binary: binary, target: target, log: log, command: exec.CommandContext}
}

// Args builds the kubectl argument list for mode.
func Args(mode domain.Mode, target k8s.Target) []string {
	args := []string{"top", "pods"}
	if mode.AllNamespaces {
		args = append(args, "--all-namespaces")
	} else if mode.Namespace != "" {
		args = append(args, "--namespace", mode.Namespace)
	}
	if target.Kubeconfig != "" {
		args = append(args, "--kubeconfig", target.Kubeconfig)
	}
	if target.Context != "" {
		args = append(args, "--context", target.Context)
	}
	return args
}

// TopPods runs kubectl once and returns its stdout.
func (r *Runner) TopPods(ctx context.Context, mode domain.Mode) (string, error) {
	if err := mode.Validate(); err != nil {
		return "", err
	}

	args := Args(mode, r.target)
	argv := append([]string{r.binary}, args...)

	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, r.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.log.Debug("ran metrics command",
		zap.Strings("argv", argv),
		zap.Duration("took", time.Since(start)),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Error(err),
	)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &domain.CommandExecutionError{Command: argv, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", &domain.CommandExecutionError{Command: argv, ExitCode: -1, Stderr: err.Error()}
	}

	if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
		return "", domain.ErrEmptyOutput
	}
	return stdout.String(), nil
}

package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/gxlog"
	"github.com/nikki93/gxsl/shader"
)

// DefaultTimeout bounds one validator run.
const DefaultTimeout = 10 * time.Second

// Tool validates sources with an external binary. Sources are written to a
// private scratch directory that Close removes.
type Tool struct {
	Bin     string
	Timeout time.Duration

	resolveOnce sync.Once
	path        string
	resolveErr  error

	dirOnce sync.Once
	dir     string
	dirErr  error
}

// NewTool returns a tool running bin, a name looked up in PATH or a path.
// A zero timeout means DefaultTimeout.
func NewTool(bin string, timeout time.Duration) *Tool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tool{Bin: bin, Timeout: timeout}
}

// Path resolves the binary. The result is cached.
func (t *Tool) Path() (string, error) {
	t.resolveOnce.Do(func() {
		path, err := exec.LookPath(t.Bin)
		if err != nil {
			t.resolveErr = fmt.Errorf("%w: %s: %v", ErrToolUnavailable, t.Bin, err)
			return
		}
		t.path = path
	})
	return t.path, t.resolveErr
}

func (t *Tool) CanExecute() bool {
	_, err := t.Path()
	return err == nil
}

func (t *Tool) scratch() (string, error) {
	t.dirOnce.Do(func() {
		t.dir, t.dirErr = os.MkdirTemp("", "gxsl-validate-")
	})
	return t.dir, t.dirErr
}

// Close removes the scratch directory.
func (t *Tool) Close() error {
	if t.dir == "" {
		return nil
	}
	return os.RemoveAll(t.dir)
}

func (t *Tool) ValidateShader(ctx context.Context, class *decl.Class, source shader.GeneratedShaderSource, profile Profile) (bool, diag.List) {
	path, err := t.Path()
	if err != nil || source.Empty() {
		return false, nil
	}
	warnf := func(id diag.ID, format string, args ...interface{}) diag.List {
		d := diag.Warningf(id, class.Pos, format, args...).In(class.QualifiedName(), string(source.Backend))
		gxlog.Logger().Warn("validation", "tool", t.Bin, "shader", d.Shader, "backend", d.Backend, "id", string(id))
		return diag.List{d}
	}

	file, err := t.write(class, source, profile)
	if err != nil {
		return false, warnf(diag.ValidatorInternal, "%s: writing scratch file: %v", t.Bin, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()
	args := append(append([]string(nil), profile.Args...), file)
	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()

	switch {
	case ctx.Err() != nil:
		// Cancelled by the caller: not a validation result.
		return false, nil
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return false, warnf(diag.ValidationTimeout, "%s timed out after %s", t.Bin, t.Timeout)
	case err != nil:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return false, warnf(diag.ValidatorInternal, "%s: %v", t.Bin, err)
		}
		message := strings.TrimSpace(string(output))
		if message == "" {
			message = exitErr.Error()
		}
		return false, warnf(diag.ValidationFailed, "%s rejected the %s source:\n%s", t.Bin, source.Backend, message)
	}
	gxlog.Logger().Debug("validation passed", "tool", t.Bin, "shader", class.QualifiedName(), "backend", string(source.Backend))
	return true, nil
}

// write stores the payload in a new scratch file and returns its path.
func (t *Tool) write(class *decl.Class, source shader.GeneratedShaderSource, profile Profile) (string, error) {
	dir, err := t.scratch()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, class.Name+"."+string(source.Backend)+".*"+profile.Ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(source.Payload()); err != nil {
		f.Close()
		return "", err
	}
	return f.Name(), f.Close()
}

package validate

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/gxlog"
	"github.com/nikki93/gxsl/shader"
)

// Pool runs validators with bounded concurrency, since every run of an
// external tool spawns a process.
type Pool struct {
	sem        *semaphore.Weighted
	validators map[string]Validator

	skipped sync.Map // tool name -> struct{}
}

// NewPool returns a pool running at most workers validations at once, using
// validators keyed by tool name.
func NewPool(workers int, validators map[string]Validator) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers)), validators: validators}
}

// Tools returns validators for every profile tool. Binaries are looked up by
// tool name unless paths overrides them.
func Tools(paths map[string]string, timeout time.Duration) map[string]Validator {
	result := map[string]Validator{ToolNaga: NagaValidator{}}
	for _, name := range []string{ToolGlslang, ToolDXC, ToolSPIRVVal} {
		bin := name
		if path, ok := paths[name]; ok && path != "" {
			bin = path
		}
		result[name] = NewTool(bin, timeout)
	}
	return result
}

// Validate validates source generated from class. Sources without a
// profile or validator, and validators that cannot run, are skipped.
func (p *Pool) Validate(ctx context.Context, class *decl.Class, source shader.GeneratedShaderSource) (bool, diag.List) {
	if source.Empty() {
		return false, nil
	}
	profile, ok := ProfileFor(source.Backend, class.Stage)
	if !ok {
		return false, nil
	}
	v, ok := p.validators[profile.Tool]
	if !ok || !v.CanExecute() {
		if _, loaded := p.skipped.LoadOrStore(profile.Tool, struct{}{}); !loaded {
			gxlog.Logger().Info("validator unavailable, skipping", "tool", profile.Tool)
		}
		return false, nil
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, nil
	}
	defer p.sem.Release(1)
	return v.ValidateShader(ctx, class, source, profile)
}

// Close releases every validator holding resources.
func (p *Pool) Close() error {
	var errs []error
	for _, v := range p.validators {
		if closer, ok := v.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

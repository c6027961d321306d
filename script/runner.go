// Package script replays control input from tengo scripts. A script runs
// once per tick with the globals tick, time and input in scope; input holds
// press, release, focus, log and stop.
package script

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/ride/level"
)

// Target receives the input a script emits.
type Target interface {
	Press(input string) bool
	Release(input string) bool
	CameraFocus() (level.Vec, bool)
}

type event struct {
	press bool
	input string
}

type Runner struct {
	name     string
	compiled *tengo.Compiled
	logger   *log.Logger
	input    *tengo.ImmutableMap
	pending  []event
	target   Target
	stopped  bool
}

// Compile prepares src for per-tick execution.
func Compile(name string, src []byte, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default().WithPrefix("script")
	}

	s := tengo.NewScript(src)
	_ = s.Add("tick", 0)
	_ = s.Add("time", 0.0)
	_ = s.Add("input", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	r := &Runner{name: name, compiled: compiled, logger: logger.With("script", name)}
	r.input = r.inputModule()
	return r, nil
}

// Load compiles the script file at path.
func Load(path string, logger *log.Logger) (*Runner, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return Compile(path, src, logger)
}

func (r *Runner) Name() string {
	return r.name
}

// Stopped reports whether the script has called input.stop().
func (r *Runner) Stopped() bool {
	return r.stopped
}

// Step runs the script for tick and then delivers the input it emitted to
// target in call order. A stopped runner does nothing.
func (r *Runner) Step(ctx context.Context, tick int, dt float64, target Target) error {
	if r == nil || r.compiled == nil || r.stopped {
		return nil
	}

	r.pending = r.pending[:0]
	r.target = target
	defer func() { r.target = nil }()

	if err := r.set("tick", tick); err != nil {
		return err
	}
	if err := r.set("time", float64(tick)*dt); err != nil {
		return err
	}
	if err := r.set("input", r.input); err != nil {
		return err
	}
	if err := r.compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script: %s tick %d: %w", r.name, tick, err)
	}

	for _, e := range r.pending {
		if e.press {
			target.Press(e.input)
		} else {
			target.Release(e.input)
		}
		r.logger.Debug("input", "tick", tick, "press", e.press, "input", e.input)
	}
	return nil
}

// set skips globals the script never reads; tengo compiles those away.
func (r *Runner) set(name string, value any) error {
	if !r.compiled.IsDefined(name) {
		return nil
	}
	if err := r.compiled.Set(name, value); err != nil {
		return fmt.Errorf("script: %s set %s: %w", r.name, name, err)
	}
	return nil
}

func (r *Runner) inputModule() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	queue := func(press bool) func(args ...tengo.Object) (tengo.Object, error) {
		return func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			input := objectAsString(args[0])
			if input == "" {
				return tengo.FalseValue, nil
			}
			r.pending = append(r.pending, event{press: press, input: input})
			return tengo.TrueValue, nil
		}
	}

	values["press"] = &tengo.UserFunction{Name: "press", Value: queue(true)}
	values["release"] = &tengo.UserFunction{Name: "release", Value: queue(false)}

	values["focus"] = &tengo.UserFunction{Name: "focus", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if r.target == nil {
			return tengo.UndefinedValue, nil
		}
		p, ok := r.target.CameraFocus()
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.logger.Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		r.stopped = true
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

// Package scenario loads and runs YAML-described object workloads for
// the refscope CLI. A scenario is a sequence of lifecycle steps played
// against the fake object system with the tracker attached, so the
// tracker's reporting can be demonstrated (and exercised in tests)
// without a real instrumented process.
package scenario

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/refscope/refscope/pkg/adapters/fakeobj"
	"github.com/refscope/refscope/pkg/ports"
	"github.com/refscope/refscope/pkg/tracker"
)

// Step is one scenario operation. Op selects the operation; the
// remaining keys are op-specific parameters decoded per op.
type Step struct {
	Op     string         `yaml:"op"`
	Params map[string]any `yaml:",inline"`
}

// Scenario is a named sequence of steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load decodes a scenario from YAML.
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(false)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	return &s, nil
}

// LoadFile reads and decodes a scenario file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Op-specific parameter shapes. Steps carry free-form maps in YAML;
// each op decodes its map into one of these via mapstructure.
type (
	newOp struct {
		Type string `mapstructure:"type"`
		As   string `mapstructure:"as"`
	}
	handleOp struct {
		Of string `mapstructure:"of"`
	}
	bufferOp struct {
		As   string `mapstructure:"as"`
		Size int    `mapstructure:"size"`
		Data string `mapstructure:"data"`
	}
	initOp struct {
		Type string `mapstructure:"type"`
		As   string `mapstructure:"as"`
	}
)

func decodeParams[T any](step Step) (T, error) {
	var out T
	if err := mapstructure.Decode(step.Params, &out); err != nil {
		return out, fmt.Errorf("op %q: %w", step.Op, err)
	}
	return out, nil
}

// Runner plays scenarios against a tracker and the fake system backing
// it. Named handles let later steps reference objects created earlier.
type Runner struct {
	Tracker *tracker.Tracker
	System  *fakeobj.System

	handles map[string]ports.Object
}

// NewRunner creates a runner over the given tracker and system.
func NewRunner(tr *tracker.Tracker, sys *fakeobj.System) *Runner {
	return &Runner{
		Tracker: tr,
		System:  sys,
		handles: make(map[string]ports.Object),
	}
}

// Run executes every step in order, stopping at the first error.
func (r *Runner) Run(s *Scenario) error {
	for i, step := range s.Steps {
		if err := r.runStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Runner) runStep(step Step) error {
	switch step.Op {
	case "new":
		op, err := decodeParams[newOp](step)
		if err != nil {
			return err
		}
		if op.Type == "" {
			return fmt.Errorf("op %q: type is required", step.Op)
		}
		r.store(op.As, r.Tracker.Construct(op.Type))

	case "ref":
		op, err := decodeParams[handleOp](step)
		if err != nil {
			return err
		}
		obj, err := r.lookup(op.Of)
		if err != nil {
			return err
		}
		r.Tracker.Ref(obj)

	case "unref":
		op, err := decodeParams[handleOp](step)
		if err != nil {
			return err
		}
		obj, err := r.lookup(op.Of)
		if err != nil {
			return err
		}
		r.Tracker.Unref(obj)

	case "buffer_new":
		op, err := decodeParams[bufferOp](step)
		if err != nil {
			return err
		}
		r.store(op.As, r.Tracker.NewBuffer())

	case "buffer_new_allocate":
		op, err := decodeParams[bufferOp](step)
		if err != nil {
			return err
		}
		r.store(op.As, r.Tracker.NewBufferAllocate(op.Size))

	case "buffer_new_wrapped":
		op, err := decodeParams[bufferOp](step)
		if err != nil {
			return err
		}
		r.store(op.As, r.Tracker.NewBufferWrapped([]byte(op.Data)))

	case "mini_init":
		op, err := decodeParams[initOp](step)
		if err != nil {
			return err
		}
		if op.Type == "" {
			return fmt.Errorf("op %q: type is required", step.Op)
		}
		obj := r.System.AllocUninitialized()
		r.Tracker.InitMiniObject(obj, op.Type)
		r.store(op.As, obj)

	case "mini_ref":
		op, err := decodeParams[handleOp](step)
		if err != nil {
			return err
		}
		obj, err := r.lookup(op.Of)
		if err != nil {
			return err
		}
		r.Tracker.MiniRef(obj)

	case "mini_unref":
		op, err := decodeParams[handleOp](step)
		if err != nil {
			return err
		}
		obj, err := r.lookup(op.Of)
		if err != nil {
			return err
		}
		r.Tracker.MiniUnref(obj)

	case "live_dump":
		r.Tracker.LiveDump()

	case "checkpoint":
		r.Tracker.CheckpointDump()

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (r *Runner) store(name string, obj ports.Object) {
	if name != "" {
		r.handles[name] = obj
	}
}

func (r *Runner) lookup(name string) (ports.Object, error) {
	if name == "" {
		return nil, fmt.Errorf("of is required")
	}
	obj, ok := r.handles[name]
	if !ok {
		return nil, fmt.Errorf("unknown handle %q", name)
	}
	return obj, nil
}

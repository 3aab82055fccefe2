package script

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/fibers/prefabs"
)

// Event describes the prop the player started overlapping.
type Event struct {
	Kind      string
	Name      string
	X, Y      float64
	Dimension float64
}

func (e Event) values() map[string]any {
	return map[string]any{
		"kind":      e.Kind,
		"name":      e.Name,
		"x":         e.X,
		"y":         e.Y,
		"dimension": e.Dimension,
	}
}

// Hook runs a tengo script's on_overlap(engine, event) function.
type Hook struct {
	Name     string
	compiled *tengo.Compiled
	state    *tengo.Map

	// Output receives every engine.log line. Defaults to the standard logger.
	Output func(line string)
}

const dispatchScript = `
if __phase == "overlap" {
	on_overlap(__engine, __event)
}
`

// NewHook compiles src. An empty source yields a nil hook.
func NewHook(name string, src []byte) (*Hook, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, nil
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__event", map[string]any{})
	script.SetImports(stdlib.GetModuleMap("fmt", "math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	h := &Hook{
		Name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	// run once so top-level statements execute and definitions resolve
	if err := h.runPhase("", nil, nil); err != nil {
		return nil, fmt.Errorf("script: init %s: %w", name, err)
	}
	return h, nil
}

// Load compiles a script from the prefab scripts directory. An empty name
// yields a nil hook.
func Load(name string) (*Hook, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return NewHook(name, src)
}

// Run calls on_overlap with the event. A nil hook does nothing.
func (h *Hook) Run(ev Event) error {
	if h == nil || h.compiled == nil {
		return nil
	}
	event, err := tengo.FromInterface(ev.values())
	if err != nil {
		return fmt.Errorf("script: %s: event: %w", h.Name, err)
	}
	if err := h.runPhase("overlap", h.engine(), event); err != nil {
		return fmt.Errorf("script: %s: on_overlap: %w", h.Name, err)
	}
	return nil
}

func (h *Hook) runPhase(phase string, engine *tengo.ImmutableMap, event tengo.Object) error {
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if event == nil {
		event = &tengo.Map{Value: map[string]tengo.Object{}}
	}
	if err := h.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := h.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := h.compiled.Set("__event", event); err != nil {
		return err
	}
	return h.compiled.Run()
}

func (h *Hook) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		h.emit(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}
	values["state"] = h.state
	return &tengo.ImmutableMap{Value: values}
}

func (h *Hook) emit(line string) {
	if h.Output != nil {
		h.Output(line)
		return
	}
	log.Printf("script: %s: %s", h.Name, line)
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

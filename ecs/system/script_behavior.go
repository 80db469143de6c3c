package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// ScriptSource resolves a behavior script name to its source.
type ScriptSource func(name string) ([]byte, error)

// ScriptBehavior runs tengo scripts for the scripted enemy behavior. Each
// script is compiled once and cloned per enemy, so globals and the `state`
// map persist across ticks for that enemy only.
//
// Inputs: x, y, vx, vy, dir, grounded, player_found, player_x, player_y,
// health, max_health, attack_ready, time, state.
// Outputs: move (-1..1), jump, attack.
type ScriptBehavior struct {
	source   ScriptSource
	compiled map[string]*tengo.Compiled
	runtimes map[ecs.Entity]*scriptRuntime
	failed   map[string]bool
}

type scriptRuntime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

var scriptGlobals = []string{
	"x", "y", "vx", "vy", "dir", "grounded",
	"player_found", "player_x", "player_y",
	"health", "max_health", "attack_ready", "time",
}

func NewScriptBehavior(source ScriptSource) *ScriptBehavior {
	return &ScriptBehavior{
		source:   source,
		compiled: map[string]*tengo.Compiled{},
		runtimes: map[ecs.Entity]*scriptRuntime{},
		failed:   map[string]bool{},
	}
}

// Decide runs one tick of the enemy's script. It reports false when the
// script cannot be loaded or fails, leaving the caller to fall back.
func (b *ScriptBehavior) Decide(e ecs.Entity, now float64, ctx *component.EnemyStateContext) (component.ScriptDecision, bool) {
	if b == nil || ctx == nil {
		return component.ScriptDecision{}, false
	}
	name := strings.TrimSpace(ctx.Enemy.Behavior.Script)
	rt, err := b.runtime(e, name)
	if err != nil {
		if !b.failed[name] {
			log.Printf("[script] %s: %v", name, err)
			b.failed[name] = true
		}
		return component.ScriptDecision{}, false
	}

	inputs := map[string]any{
		"x":            ctx.Body.Position.X,
		"y":            ctx.Body.Position.Y,
		"vx":           ctx.Body.Velocity.X,
		"vy":           ctx.Body.Velocity.Y,
		"dir":          ctx.Enemy.Direction,
		"grounded":     ctx.Body.Grounded,
		"player_found": ctx.PlayerFound,
		"player_x":     ctx.PlayerPos.X,
		"player_y":     ctx.PlayerPos.Y,
		"health":       ctx.Combat.Health,
		"max_health":   ctx.Combat.MaxHealth,
		"attack_ready": attackReady(ctx),
		"time":         now,
		"move":         0.0,
		"jump":         false,
		"attack":       false,
	}
	inputs["state"] = rt.state
	// globals a script never references are dropped at compile time
	for k, v := range inputs {
		if !rt.compiled.IsDefined(k) {
			continue
		}
		if err := rt.compiled.Set(k, v); err != nil {
			log.Printf("[script] %s: set %s: %v", name, k, err)
			return component.ScriptDecision{}, false
		}
	}
	if err := rt.compiled.Run(); err != nil {
		if !b.failed[name] {
			log.Printf("[script] %s: run: %v", name, err)
			b.failed[name] = true
		}
		return component.ScriptDecision{}, false
	}

	return component.ScriptDecision{
		Move:   rt.compiled.Get("move").Float(),
		Jump:   rt.compiled.Get("jump").Bool(),
		Attack: rt.compiled.Get("attack").Bool(),
	}, true
}

// Forget drops the per-enemy runtime.
func (b *ScriptBehavior) Forget(e ecs.Entity) {
	if b == nil {
		return
	}
	delete(b.runtimes, e)
}

// Invalidate discards the compiled script so the next tick reloads it. Live
// enemies running it restart with fresh state.
func (b *ScriptBehavior) Invalidate(name string) {
	if b == nil {
		return
	}
	delete(b.compiled, name)
	delete(b.failed, name)
	for e, rt := range b.runtimes {
		if rt.name == name {
			delete(b.runtimes, e)
		}
	}
}

func (b *ScriptBehavior) runtime(e ecs.Entity, name string) (*scriptRuntime, error) {
	if rt, ok := b.runtimes[e]; ok && rt.name == name {
		return rt, nil
	}
	base, err := b.compile(name)
	if err != nil {
		return nil, err
	}
	rt := &scriptRuntime{
		name:     name,
		compiled: base.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	b.runtimes[e] = rt
	return rt, nil
}

func (b *ScriptBehavior) compile(name string) (*tengo.Compiled, error) {
	if c, ok := b.compiled[name]; ok {
		return c, nil
	}
	if name == "" {
		return nil, fmt.Errorf("empty script name")
	}
	if b.source == nil {
		return nil, fmt.Errorf("no script source")
	}
	src, err := b.source(name)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	script := tengo.NewScript(src)
	for _, g := range scriptGlobals {
		_ = script.Add(g, 0.0)
	}
	_ = script.Add("move", 0.0)
	_ = script.Add("jump", false)
	_ = script.Add("attack", false)
	_ = script.Add("state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	b.compiled[name] = compiled
	return compiled, nil
}

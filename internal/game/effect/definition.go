// Package effect implements the timed status-effect engine: effect types
// loaded from YAML, and per-actor sets that apply, merge, block, resist and
// decay them turn by turn.
package effect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// Effect ids the combat pipeline applies directly.
const (
	Blind     = "blind"
	Bounced   = "bounced"
	Downed    = "downed"
	OnFire    = "onfire"
	Sap       = "sap"
	Sleep     = "sleep"
	Stunned   = "stunned"
	Zapped    = "zapped"
	LyingDown = "lying_down"
)

// ErrUnknownType is returned by Registry.Lookup for an unregistered id.
var ErrUnknownType = errors.New("unknown effect type")

// DecayMessage is shown to the player when intensity decays to the
// corresponding level.
type DecayMessage struct {
	Text string       `yaml:"text"`
	Type message.Type `yaml:"type"`
}

// Type is the immutable definition of an effect, loaded from YAML.
type Type struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	MaxDuration  int `yaml:"max_duration"`  // 0 = unbounded
	MaxIntensity int `yaml:"max_intensity"` // clamped to >= 1 on register
	DurAddPerc   int `yaml:"dur_add_perc"`  // percent of a re-applied duration that is added; defaults to 100
	IntAddVal    int `yaml:"int_add_val"`
	IntDurFactor int `yaml:"int_dur_factor"`
	IntDecayStep int `yaml:"int_decay_step"`
	IntDecayTick int `yaml:"int_decay_tick"`

	MainPartsOnly bool `yaml:"main_parts_only"`

	BlocksEffects  []string `yaml:"blocks_effects"`
	RemovesEffects []string `yaml:"removes_effects"`
	ResistEffects  []string `yaml:"resist_effects"`
	ResistTraits   []string `yaml:"resist_traits"`

	ApplyMessage      string         `yaml:"apply_message"`
	ApplyMessageType  message.Type   `yaml:"apply_message_type"`
	RemoveMessage     string         `yaml:"remove_message"`
	RemoveMessageType message.Type   `yaml:"remove_message_type"`
	ApplyMemorialLog  string         `yaml:"apply_memorial_log"`
	RemoveMemorialLog string         `yaml:"remove_memorial_log"`
	DecayMessages     []DecayMessage `yaml:"decay_messages"`

	// Mods maps a stat name to its per-intensity delta while active.
	Mods map[string]int `yaml:"mods"`

	LuaOnApply string `yaml:"lua_on_apply"` // Lua function name; called with (uid, id, intensity, resisted)
}

// Blocks reports whether t prevents a new effect of id from starting.
func (t *Type) Blocks(id string) bool {
	for _, b := range t.BlocksEffects {
		if b == id {
			return true
		}
	}
	return false
}

// Validate reports structural problems with a loaded definition.
func (t *Type) Validate() error {
	var errs []string
	if t.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if t.MaxDuration < 0 {
		errs = append(errs, "max_duration must be >= 0")
	}
	if t.IntDecayTick < 0 {
		errs = append(errs, "int_decay_tick must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("effect %q: %s", t.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds every known Type keyed by ID. It is built once at startup
// and shared read-only afterwards.
type Registry struct {
	defs map[string]*Type
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Type)}
}

// Register adds t, overwriting any existing entry with the same ID.
//
// Precondition: t must not be nil and t.ID must not be empty.
// Postcondition: t.MaxIntensity >= 1.
func (r *Registry) Register(t *Type) {
	if t.MaxIntensity < 1 {
		t.MaxIntensity = 1
	}
	r.defs[t.ID] = t
}

// Get returns the Type for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Type, bool) {
	t, ok := r.defs[id]
	return t, ok
}

// Lookup is Get with an error wrapping ErrUnknownType.
func (r *Registry) Lookup(id string) (*Type, error) {
	t, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, id)
	}
	return t, nil
}

// All returns every registered Type sorted by ID.
func (r *Registry) All() []*Type {
	out := make([]*Type, 0, len(r.defs))
	for _, t := range r.defs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir as one Type.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry, or an error naming the first
// file that fails to parse or validate, or a duplicated id.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		def := Type{DurAddPerc: 100, MaxIntensity: 1}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		if _, dup := reg.Get(def.ID); dup {
			return nil, fmt.Errorf("%q: duplicate effect id %q", path, def.ID)
		}
		reg.Register(&def)
	}
	return reg, nil
}

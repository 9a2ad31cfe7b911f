// Package npc provides monster and NPC template definitions, the concrete
// creature bodies built from them, and the roster of live actors.
package npc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
)

// Kind separates the three actor families.
type Kind string

const (
	KindPlayer  Kind = "player"
	KindMonster Kind = "monster"
	KindNPC     Kind = "npc"
)

// Disposition is an NPC's standing attitude toward the player.
type Disposition string

const (
	DispositionKill    Disposition = "kill"
	DispositionFollow  Disposition = "follow"
	DispositionNeutral Disposition = "neutral"
)

// Template defines a reusable actor archetype loaded from YAML.
type Template struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Kind        Kind      `yaml:"kind"`
	Size        body.Size `yaml:"size"`
	MaxHP       int       `yaml:"max_hp"`
	Speed       int       `yaml:"speed"`
	Material    string    `yaml:"material"`
	// Skin names the outer layer in "the shot reflects off" messages.
	// Empty falls back to the body part name.
	Skin string `yaml:"skin"`

	Dodge     int `yaml:"dodge"`
	Melee     int `yaml:"melee"`
	Block     int `yaml:"block"`
	ArmorBash int `yaml:"armor_bash"`
	ArmorCut  int `yaml:"armor_cut"`
	// EnvResist is keyed by body part id, e.g. "eyes".
	EnvResist     map[string]int `yaml:"env_resist"`
	ImmuneEffects []string       `yaml:"immune_effects"`
	ImmuneDamage  []damage.Type  `yaml:"immune_damage"`
	Traits        []string       `yaml:"traits"`

	PowerRating float64 `yaml:"power_rating"`
	// Friendly is the monster's friendliness to the player; 0 is wild.
	Friendly    int         `yaml:"friendly"`
	Disposition Disposition `yaml:"attitude"`

	// Attack is the unarmed melee damage.
	Attack []damage.Unit `yaml:"attack"`
	// Scripts is the Lua scope effect hooks on this actor run in. Empty uses
	// the global scope.
	Scripts string `yaml:"scripts"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Kind is known,
// MaxHP >= 1, Speed >= 0, every env_resist key is a body part, every attack
// unit has a non-negative amount, and an NPC's attitude is known.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	switch t.Kind {
	case KindPlayer, KindMonster, KindNPC:
	default:
		return fmt.Errorf("npc template %q: unknown kind %q", t.ID, t.Kind)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("npc template %q: max_hp must be >= 1", t.ID)
	}
	if t.Speed < 0 {
		return fmt.Errorf("npc template %q: speed must be >= 0", t.ID)
	}
	for part := range t.EnvResist {
		if _, err := body.ParsePart(part); err != nil {
			return fmt.Errorf("npc template %q: env_resist: %w", t.ID, err)
		}
	}
	for i, u := range t.Attack {
		if u.Amount < 0 {
			return fmt.Errorf("npc template %q: attack[%d]: amount must be >= 0", t.ID, i)
		}
	}
	if t.Kind == KindNPC {
		switch t.Disposition {
		case DispositionKill, DispositionFollow, DispositionNeutral:
		default:
			return fmt.Errorf("npc template %q: unknown attitude %q", t.ID, t.Disposition)
		}
	}
	return nil
}

// AttackDamage returns a fresh damage instance for one unarmed hit.
func (t *Template) AttackDamage() *damage.Instance {
	d := &damage.Instance{}
	for _, u := range t.Attack {
		d.AddDamage(u.Type, u.Amount, u.Multiplier)
	}
	return d
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error. Unknown fields
// are rejected. Size defaults to medium, speed 0 becomes 100, an NPC with no attitude is neutral, and
// attack units with no multiplier get 1.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	tmpl := Template{Size: body.Medium}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if tmpl.Speed == 0 {
		tmpl.Speed = 100
	}
	if tmpl.Kind == KindNPC && tmpl.Disposition == "" {
		tmpl.Disposition = DispositionNeutral
	}
	for i := range tmpl.Attack {
		if tmpl.Attack[i].Multiplier == 0 {
			tmpl.Attack[i].Multiplier = 1
		}
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// keyed by id.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse,
// validate or duplicate-id failure.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}

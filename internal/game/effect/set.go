package effect

import (
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// Effect is one applied effect instance.
type Effect struct {
	Type      *Type // shared, never copied
	Duration  int
	Intensity int
	BodyPart  body.Part
	Permanent bool
	StartTurn int
}

// Null is returned by lookups that find nothing.
var Null = Effect{BodyPart: body.NumBP}

// IsNull reports whether e is the Null sentinel.
func (e Effect) IsNull() bool { return e.Type == nil }

// ID returns the type id, or "" for Null.
func (e Effect) ID() string {
	if e.Type == nil {
		return ""
	}
	return e.Type.ID
}

// Host is the actor an effect Set belongs to.
type Host interface {
	IsPlayer() bool
	ImmuneToEffect(id string) bool
	HasTrait(trait string) bool
	EnvResist(bp body.Part) int
}

// Roller supplies the dice used by environmental resistance checks.
type Roller interface {
	Dice(number, sides int) int
}

// Journal records memorial entries for the player.
type Journal interface {
	Record(effectID, text string)
}

// ApplyHook runs after a new effect instance is stored.
type ApplyHook func(e Effect, resisted bool)

// Set holds every effect on one actor, at most one instance per
// (type, body part). It is not safe for concurrent use.
type Set struct {
	registry *Registry
	host     Host
	roller   Roller
	logger   *zap.Logger
	sink     message.Sink
	journal  Journal
	onApply  ApplyHook
	turn     int
	effects  map[string]map[body.Part]*Effect
}

// NewSet creates an empty Set for host.
//
// Precondition: every argument must be non-nil.
func NewSet(reg *Registry, host Host, roller Roller, logger *zap.Logger) *Set {
	return &Set{
		registry: reg,
		host:     host,
		roller:   roller,
		logger:   logger,
		sink:     message.Discard,
		effects:  make(map[string]map[body.Part]*Effect),
	}
}

// SetSink routes player messages to sink.
func (s *Set) SetSink(sink message.Sink) { s.sink = sink }

// SetJournal routes player memorial entries to j; nil disables them.
func (s *Set) SetJournal(j Journal) { s.journal = j }

// SetApplyHook installs fn as the on-apply hook; nil disables it.
func (s *Set) SetApplyHook(fn ApplyHook) { s.onApply = fn }

// Registry returns the registry the set resolves ids against.
func (s *Set) Registry() *Registry { return s.registry }

// Turn returns the turn most recently passed to Process.
func (s *Set) Turn() int { return s.turn }

// Add applies effect id to bp, merging with an existing instance on the same
// part. intensity <= 0 means "type default". force skips the host immunity
// check.
//
// Postcondition: if an instance of id exists on the (possibly remapped) part,
// its intensity is within [1, Type.MaxIntensity].
func (s *Set) Add(id string, dur int, bp body.Part, permanent bool, intensity int, force bool) {
	if !force && s.host.ImmuneToEffect(id) {
		return
	}
	t, ok := s.registry.Get(id)
	if !ok {
		s.logger.Warn("invalid effect", zap.String("id", id))
		return
	}
	if t.MainPartsOnly {
		bp = body.MainPart(bp)
	}

	if e, found := s.effects[id][bp]; found {
		e.Duration += dur * t.DurAddPerc / 100
		if t.MaxDuration > 0 && e.Duration > t.MaxDuration {
			e.Duration = t.MaxDuration
		}
		// A merge keeps the existing instance's permanence; it never promotes.
		if intensity > 0 {
			e.Intensity = intensity
		} else if t.IntAddVal != 0 {
			e.Intensity += t.IntAddVal
		}
		s.clampIntensity(e)
		return
	}

	for _, parts := range s.effects {
		for _, other := range parts {
			if other.Type.Blocks(id) {
				return
			}
		}
	}

	e := &Effect{Type: t, Duration: dur, Intensity: intensity, BodyPart: bp, Permanent: permanent, StartTurn: s.turn}
	if t.MaxDuration > 0 && e.Duration > t.MaxDuration {
		e.Duration = t.MaxDuration
	}
	if t.IntDurFactor != 0 {
		e.Intensity = e.Duration/t.IntDurFactor + 1
	}
	s.clampIntensity(e)

	if s.effects[id] == nil {
		s.effects[id] = make(map[body.Part]*Effect)
	}
	s.effects[id][bp] = e

	if s.host.IsPlayer() {
		if t.ApplyMessage != "" {
			s.sink.Add(message.Message{Type: t.ApplyMessageType, Text: t.ApplyMessage})
		}
		s.record(id, t.ApplyMemorialLog)
	}
	resisted := s.Resists(*e)
	if s.onApply != nil {
		s.onApply(*e, resisted)
	}
}

// AddEnv applies id as an environmental effect entering through vector.
// The effect lands only when dice(strength, 3) beats dice(EnvResist(vector), 3).
// It reports whether the effect was applied.
func (s *Set) AddEnv(id string, vector body.Part, strength, dur int, bp body.Part, permanent bool, intensity int, force bool) bool {
	if !force && s.host.ImmuneToEffect(id) {
		return false
	}
	if s.roller.Dice(strength, 3) > s.roller.Dice(s.host.EnvResist(vector), 3) {
		s.Add(id, dur, bp, permanent, intensity, true)
		return true
	}
	return false
}

// Remove erases id on bp, or on every part when bp is body.NumBP.
// It reports false, changing nothing, when no instance matches.
func (s *Set) Remove(id string, bp body.Part) bool {
	if !s.Has(id, bp) {
		return false
	}
	if s.host.IsPlayer() {
		if t, ok := s.registry.Get(id); ok {
			if t.RemoveMessage != "" {
				s.sink.Add(message.Message{Type: t.RemoveMessageType, Text: t.RemoveMessage})
			}
			s.record(id, t.RemoveMemorialLog)
		}
	}
	if bp == body.NumBP {
		delete(s.effects, id)
		return true
	}
	delete(s.effects[id], bp)
	if len(s.effects[id]) == 0 {
		delete(s.effects, id)
	}
	return true
}

// Clear drops every effect without messages.
func (s *Set) Clear() {
	s.effects = make(map[string]map[body.Part]*Effect)
}

// Has reports whether id is active on bp; body.NumBP matches any part.
func (s *Set) Has(id string, bp body.Part) bool {
	parts, ok := s.effects[id]
	if !ok {
		return false
	}
	if bp == body.NumBP {
		return true
	}
	_, ok = parts[bp]
	return ok
}

// Get returns a copy of the instance of id on bp, or Null.
func (s *Set) Get(id string, bp body.Part) Effect {
	if e, ok := s.effects[id][bp]; ok {
		return *e
	}
	return Null
}

// Duration returns the remaining duration of id on bp, or 0.
func (s *Set) Duration(id string, bp body.Part) int {
	return s.Get(id, bp).Duration
}

// Intensity returns the intensity of id on bp, or 0.
func (s *Set) Intensity(id string, bp body.Part) int {
	return s.Get(id, bp).Intensity
}

// Len returns the number of active instances.
func (s *Set) Len() int {
	n := 0
	for _, parts := range s.effects {
		n += len(parts)
	}
	return n
}

// All returns copies of every instance, ordered by id then body part.
func (s *Set) All() []Effect {
	live := s.live()
	out := make([]Effect, 0, len(live))
	for _, e := range live {
		out = append(out, *e)
	}
	return out
}

// Resists reports whether the host resists e, through an active effect or a
// trait the type lists.
func (s *Set) Resists(e Effect) bool {
	if e.Type == nil {
		return false
	}
	for _, id := range e.Type.ResistEffects {
		if s.Has(id, body.NumBP) {
			return true
		}
	}
	for _, trait := range e.Type.ResistTraits {
		if s.host.HasTrait(trait) {
			return true
		}
	}
	return false
}

type removal struct {
	id string
	bp body.Part
}

// Process advances every effect by one turn. Removals scheduled by the
// scan, both expiries and the removes-lists of active types, are applied only
// after every instance has been visited.
//
// Postcondition: no instance with Duration <= 0 remains.
// Postcondition: the Duration of a permanent instance is unchanged.
func (s *Set) Process(turn int) {
	s.turn = turn
	var queued []removal
	for _, e := range s.live() {
		for _, id := range e.Type.RemovesEffects {
			queued = append(queued, removal{id: id, bp: body.NumBP})
		}
		if s.decay(e, turn) {
			queued = append(queued, removal{id: e.Type.ID, bp: e.BodyPart})
		}
	}
	for _, r := range queued {
		s.Remove(r.id, r.bp)
	}
}

// decay steps intensity and duration of e and reports whether it expired.
func (s *Set) decay(e *Effect, turn int) bool {
	t := e.Type
	if t.IntDecayTick != 0 && t.IntDecayStep != 0 && turn%t.IntDecayTick == 0 {
		before := e.Intensity
		e.Intensity += t.IntDecayStep
		s.clampIntensity(e)
		if e.Intensity < before && s.host.IsPlayer() && e.Intensity <= len(t.DecayMessages) {
			if m := t.DecayMessages[e.Intensity-1]; m.Text != "" {
				s.sink.Add(message.Message{Type: m.Type, Text: m.Text})
			}
		}
	}
	if !e.Permanent {
		e.Duration--
	}
	return e.Duration <= 0
}

func (s *Set) clampIntensity(e *Effect) {
	if e.Intensity < 1 {
		s.logger.Debug("bad intensity", zap.String("id", e.Type.ID), zap.Int("intensity", e.Intensity))
		e.Intensity = 1
	} else if limit := max(1, e.Type.MaxIntensity); e.Intensity > limit {
		e.Intensity = limit
	}
}

func (s *Set) record(id, text string) {
	if s.journal != nil && text != "" {
		s.journal.Record(id, text)
	}
}

// live returns pointers to every instance in All order.
func (s *Set) live() []*Effect {
	ids := make([]string, 0, len(s.effects))
	for id := range s.effects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*Effect
	for _, id := range ids {
		for _, bp := range sortedParts(s.effects[id]) {
			out = append(out, s.effects[id][bp])
		}
	}
	return out
}

func sortedParts(m map[body.Part]*Effect) []body.Part {
	parts := make([]body.Part, 0, len(m))
	for bp := range m {
		parts = append(parts, bp)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })
	return parts
}

package creature

// DefaultSpeedBase is the move points a creature gains per turn before bonuses.
const DefaultSpeedBase = 100

// Ledger holds the per-turn stat bonuses layered over a creature's bases.
// Bonuses are cleared by Reset at the start of every turn and rebuilt by
// effects and the body's ResetStats hook.
type Ledger struct {
	SpeedBase int
	DodgeBase int
	HitBase   int

	NumBlocks      int
	NumDodges      int
	NumBlocksBonus int
	NumDodgesBonus int

	ArmorBashBonus int
	ArmorCutBonus  int

	SpeedBonus int
	DodgeBonus int
	BlockBonus int
	HitBonus   int
	BashBonus  int
	CutBonus   int

	BashMult float64
	CutMult  float64

	MeleeQuiet  bool
	GrabResist  int
	ThrowResist int
}

// NewLedger returns a ledger with default bases and cleared bonuses.
func NewLedger() Ledger {
	l := Ledger{SpeedBase: DefaultSpeedBase}
	l.Reset()
	return l
}

// Reset clears every bonus. Bases are kept.
//
// Postcondition: NumBlocks == NumDodges == 1; BashMult == CutMult == 1.
func (l *Ledger) Reset() {
	l.NumBlocks = 1
	l.NumDodges = 1
	l.NumBlocksBonus = 0
	l.NumDodgesBonus = 0
	l.ArmorBashBonus = 0
	l.ArmorCutBonus = 0
	l.SpeedBonus = 0
	l.DodgeBonus = 0
	l.BlockBonus = 0
	l.HitBonus = 0
	l.BashBonus = 0
	l.CutBonus = 0
	l.BashMult = 1
	l.CutMult = 1
	l.MeleeQuiet = false
	l.GrabResist = 0
	l.ThrowResist = 0
}

// Speed returns base plus bonus speed.
func (l *Ledger) Speed() int { return l.SpeedBase + l.SpeedBonus }

// Dodge returns base plus bonus dodge.
func (l *Ledger) Dodge() int { return l.DodgeBase + l.DodgeBonus }

// Hit returns base plus bonus to-hit.
func (l *Ledger) Hit() int { return l.HitBase + l.HitBonus }

// TotalBlocks returns the blocks available this turn.
func (l *Ledger) TotalBlocks() int { return l.NumBlocks + l.NumBlocksBonus }

// TotalDodges returns the dodges available this turn.
func (l *Ledger) TotalDodges() int { return l.NumDodges + l.NumDodgesBonus }

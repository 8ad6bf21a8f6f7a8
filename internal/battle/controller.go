package battle

// SwitchReason is why a battle hands control back to the world.
type SwitchReason int

const (
	BattleWon SwitchReason = iota + 1 // every target defeated
	Retreat                           // the player pressed escape
)

func (r SwitchReason) String() string {
	switch r {
	case BattleWon:
		return "won"
	case Retreat:
		return "retreat"
	default:
		return "none"
	}
}

// Controller receives the world-switch signal when a battle ends.
type Controller interface {
	SwitchWorld(reason SwitchReason)
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(reason SwitchReason)

// SwitchWorld implements Controller.
func (f ControllerFunc) SwitchWorld(reason SwitchReason) {
	f(reason)
}

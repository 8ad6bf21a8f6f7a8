package core

// Key is a logical key, abstracted from the physical device.
// The platform layer decides which physical keys map to which logical key.
type Key int

const (
	KeyNone   Key = iota
	KeyLeft       // Left arrow, A, H - walk left
	KeyRight      // Right arrow, D, L - walk right
	KeyUp         // Up arrow, W, K
	KeyDown       // Down arrow, S, J
	KeyJump       // Space - jump when grounded
	KeyFire       // F - throw a projectile
	KeyEscape     // Esc - leave the battle
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyJump:
		return "Jump"
	case KeyFire:
		return "Fire"
	case KeyEscape:
		return "Escape"
	default:
		return "Unknown"
	}
}

// InputFrame is the snapshot of keys held during one simulation tick.
// It is refreshed once per frame before the simulation runs.
type InputFrame struct {
	held map[Key]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame(keys ...Key) InputFrame {
	f := InputFrame{held: make(map[Key]bool, len(keys))}
	for _, k := range keys {
		f.held[k] = true
	}
	return f
}

// Set marks a key as held for this frame.
func (f *InputFrame) Set(k Key) {
	if f.held == nil {
		f.held = make(map[Key]bool)
	}
	f.held[k] = true
}

// Has returns true if the given key is held this frame.
func (f InputFrame) Has(k Key) bool {
	return f.held[k]
}

// Horizontal returns -1 for left, +1 for right and 0 otherwise.
// Left wins when both are held.
func (f InputFrame) Horizontal() int {
	switch {
	case f.Has(KeyLeft):
		return -1
	case f.Has(KeyRight):
		return 1
	default:
		return 0
	}
}

// Clear releases all keys for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.held {
		delete(f.held, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.held {
		clone.held[k] = v
	}
	return clone
}

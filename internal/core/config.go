package core

// RuntimeConfig contains configuration passed to scenes at initialization.
// Scenes use this to size the viewport.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// FrameDelta returns the fixed timestep in seconds for the tick rate.
func (c RuntimeConfig) FrameDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the current state of a scene.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int     // Targets defeated so far
	Targets  int     // Targets the scene started with
	Elapsed  float64 // Simulated seconds since Reset
	GameOver bool    // Whether the scene has ended
	Outcome  string  // Why the scene ended ("won", "retreat"), empty while running
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}

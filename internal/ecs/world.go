package ecs

// Role is the closed set of parts an entity can play in a frame.
// Systems switch on it instead of probing component presence repeatedly.
type Role int

const (
	RoleNone Role = iota
	RolePlayer
	RoleEnemy
	RoleProjectile
	RoleTerrain
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleEnemy:
		return "enemy"
	case RoleProjectile:
		return "projectile"
	case RoleTerrain:
		return "terrain"
	default:
		return "none"
	}
}

// IsActor reports whether the role moves on its own. Actors are never
// treated as terrain by the collision resolver.
func (r Role) IsActor() bool {
	return r == RolePlayer || r == RoleEnemy || r == RoleProjectile
}

// World owns the entities of one scene and the typed stores of their components.
type World struct {
	next  Entity
	alive map[Entity]struct{}
	order []Entity

	Positions   *Store[Position]
	Motions     *Store[Motion]
	Renderables *Store[Renderable]
	Terrains    *Store[Terrain]
	Projectiles *Store[Projectile]
	Animations  *Store[Animation]
	EnemyAIs    *Store[EnemyAI]

	Players         *Store[Tag]
	Enemies         *Store[Tag]
	PhysicsAffected *Store[Tag]
	Movables        *Store[Tag]

	stores   []componentSet
	onDelete []func(Entity)
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{
		alive: make(map[Entity]struct{}),

		Positions:   NewStore[Position](),
		Motions:     NewStore[Motion](),
		Renderables: NewStore[Renderable](),
		Terrains:    NewStore[Terrain](),
		Projectiles: NewStore[Projectile](),
		Animations:  NewStore[Animation](),
		EnemyAIs:    NewStore[EnemyAI](),

		Players:         NewStore[Tag](),
		Enemies:         NewStore[Tag](),
		PhysicsAffected: NewStore[Tag](),
		Movables:        NewStore[Tag](),
	}
	w.stores = []componentSet{
		w.Positions, w.Motions, w.Renderables, w.Terrains, w.Projectiles,
		w.Animations, w.EnemyAIs, w.Players, w.Enemies, w.PhysicsAffected, w.Movables,
	}
	return w
}

// Create issues a new entity id. Ids increase monotonically, so comparing
// ids compares creation order.
func (w *World) Create() Entity {
	w.next++
	e := w.next
	w.alive[e] = struct{}{}
	w.order = append(w.order, e)
	return e
}

// Exists reports whether e was created and not yet deleted.
func (w *World) Exists(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Delete removes e and all of its components. Deleting an unknown or
// already deleted entity is a no-op. Delete hooks run before the
// components are dropped so they can still read them.
func (w *World) Delete(e Entity) {
	if !w.Exists(e) {
		return
	}
	for _, fn := range w.onDelete {
		fn(e)
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	delete(w.alive, e)
	for i, other := range w.order {
		if other == e {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// OnDelete registers fn to be called for every deleted entity.
func (w *World) OnDelete(fn func(Entity)) {
	w.onDelete = append(w.onDelete, fn)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.order)
}

// Entities returns the live entities in creation order.
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.order))
	copy(out, w.order)
	return out
}

// With returns, in creation order, the live entities holding every given component.
func (w *World) With(sets ...componentSet) []Entity {
	out := make([]Entity, 0, len(w.order))
	for _, e := range w.order {
		if hasAll(e, sets) {
			out = append(out, e)
		}
	}
	return out
}

func hasAll(e Entity, sets []componentSet) bool {
	for _, s := range sets {
		if !s.Has(e) {
			return false
		}
	}
	return true
}

// Role resolves the role of e once; Player wins over Enemy, Enemy over
// Projectile. Any other entity with a renderable is terrain.
func (w *World) Role(e Entity) Role {
	switch {
	case w.Players.Has(e):
		return RolePlayer
	case w.Enemies.Has(e):
		return RoleEnemy
	case w.Projectiles.Has(e):
		return RoleProjectile
	case w.Terrains.Has(e), w.Renderables.Has(e):
		return RoleTerrain
	default:
		return RoleNone
	}
}

// Player returns the first live player entity.
func (w *World) Player() (Entity, bool) {
	for _, e := range w.order {
		if w.Players.Has(e) {
			return e, true
		}
	}
	return 0, false
}

// Reset deletes every entity without running delete hooks.
func (w *World) Reset() {
	for _, s := range w.stores {
		s.Clear()
	}
	w.alive = make(map[Entity]struct{})
	w.order = w.order[:0]
}

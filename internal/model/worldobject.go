package model

import "sync"

// WorldObject is the base simulation object: ID, name, position and facing.
// Data points back to the owner (*Enemy or *Player).
type WorldObject struct {
	objectID uint32
	name     string
	position Vec2
	facing   float64 // degrees, see FacingAngle
	Data     any

	mu sync.RWMutex
}

// NewWorldObject creates a new world object.
func NewWorldObject(objectID uint32, name string, pos Vec2) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		name:     name,
		position: pos,
	}
}

// ObjectID returns the unique object ID (immutable after creation).
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Name returns the object name.
func (w *WorldObject) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// Position returns the current position.
func (w *WorldObject) Position() Vec2 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.position
}

// SetPosition sets the current position.
func (w *WorldObject) SetPosition(pos Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = pos
}

// Facing returns the facing angle in degrees.
func (w *WorldObject) Facing() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.facing
}

// SetFacing sets the facing angle in degrees (normalized to (-180, 180]).
func (w *WorldObject) SetFacing(deg float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.facing = NormalizeAngle(deg)
}

// Steer rotates the facing toward targetFacing by at most maxTurn degrees and
// moves the position by delta, under one lock.
func (w *WorldObject) Steer(targetFacing, maxTurn float64, delta Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.facing = RotateTowards(w.facing, targetFacing, maxTurn)
	w.position = w.position.Add(delta)
}

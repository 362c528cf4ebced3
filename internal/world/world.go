package world

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/topdown/internal/ai"
	"github.com/udisondev/topdown/internal/model"
)

// World indexes arena objects in a sparse uniform grid.
//
// World serves two collaborators of the combat core: the spatial query used by
// the player's attack sweep, and the target registry enemies resolve at spawn.
type World struct {
	cellSize float64

	mu      sync.RWMutex
	cells   map[cellKey]*Cell
	objects map[uint32]*entry // objectID → indexed object

	player *model.Player
}

type entry struct {
	obj *model.WorldObject
	key cellKey
}

// New creates an empty world. cellSize <= 0 falls back to DefaultCellSize.
func New(cellSize float64) *World {
	if !(cellSize > 0) {
		cellSize = DefaultCellSize
	}
	return &World{
		cellSize: cellSize,
		cells:    make(map[cellKey]*Cell),
		objects:  make(map[uint32]*entry),
	}
}

// CellSize returns the grid cell edge.
func (w *World) CellSize() float64 {
	return w.cellSize
}

// AddObject indexes obj at its current position.
func (w *World) AddObject(obj *model.WorldObject) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := obj.ObjectID()
	if _, exists := w.objects[id]; exists {
		return fmt.Errorf("object %d already in world", id)
	}

	key := cellOf(obj.Position(), w.cellSize)
	w.objects[id] = &entry{obj: obj, key: key}
	w.cellLocked(key).add(obj)
	return nil
}

// RemoveObject removes object from the index. Unknown IDs are ignored.
func (w *World) RemoveObject(objectID uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.objects[objectID]
	if !ok {
		return
	}
	delete(w.objects, objectID)
	w.detachLocked(objectID, e.key)

	if w.player != nil && w.player.ObjectID() == objectID {
		w.player = nil
	}
}

// GetObject returns object by ID.
func (w *World) GetObject(objectID uint32) (*model.WorldObject, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.objects[objectID]
	if !ok {
		return nil, false
	}
	return e.obj, true
}

// Relocate moves obj to the cell matching its current position.
// Returns false if obj is not in the world.
func (w *World) Relocate(obj *model.WorldObject) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.objects[obj.ObjectID()]
	if !ok {
		return false
	}
	w.relocateLocked(e)
	return true
}

// Reindex relocates every object after a movement step.
// Returns number of objects that changed cell.
func (w *World) Reindex() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	moved := 0
	for _, e := range w.objects {
		if w.relocateLocked(e) {
			moved++
		}
	}
	return moved
}

// QueryNearby returns objects within radius of center (inclusive), ordered by
// distance and then by objectID.
func (w *World) QueryNearby(center model.Vec2, radius float64) []*model.WorldObject {
	if !(radius >= 0) {
		return nil
	}

	type hit struct {
		obj    *model.WorldObject
		distSq float64
	}

	lo, hi := cellRange(center, radius, w.cellSize)
	radiusSq := radius * radius
	var hits []hit

	w.mu.RLock()
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			c, ok := w.cells[cellKey{cx: cx, cy: cy}]
			if !ok {
				continue
			}
			for _, obj := range c.Objects() {
				if d := center.DistanceSquared(obj.Position()); d <= radiusSq {
					hits = append(hits, hit{obj: obj, distSq: d})
				}
			}
		}
	}
	w.mu.RUnlock()

	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.distSq, b.distSq); c != 0 {
			return c
		}
		return cmp.Compare(a.obj.ObjectID(), b.obj.ObjectID())
	})

	out := make([]*model.WorldObject, len(hits))
	for i, h := range hits {
		out[i] = h.obj
	}
	return out
}

// SetPlayer registers the player enemies resolve as their target.
// nil unregisters.
func (w *World) SetPlayer(p *model.Player) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.player = p
}

// ResolveTarget returns the registered player.
func (w *World) ResolveTarget() (ai.Target, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.player == nil {
		// Untyped nil: a nil *model.Player inside ai.Target would compare non-nil.
		return nil, false
	}
	return w.player, true
}

// ObjectCount returns total number of objects in world.
func (w *World) ObjectCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.objects)
}

// CellCount returns number of non-empty cells.
func (w *World) CellCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.cells)
}

func (w *World) cellLocked(key cellKey) *Cell {
	c, ok := w.cells[key]
	if !ok {
		c = newCell()
		w.cells[key] = c
	}
	return c
}

func (w *World) detachLocked(objectID uint32, key cellKey) {
	c, ok := w.cells[key]
	if !ok {
		return
	}
	c.remove(objectID)
	if c.len() == 0 {
		delete(w.cells, key)
	}
}

func (w *World) relocateLocked(e *entry) bool {
	key := cellOf(e.obj.Position(), w.cellSize)
	if key == e.key {
		return false
	}
	w.detachLocked(e.obj.ObjectID(), e.key)
	w.cellLocked(key).add(e.obj)
	e.key = key
	return true
}

package world

import (
	"cmp"
	"slices"
	"sync"

	"github.com/udisondev/topdown/internal/model"
)

// Cell is one square of the uniform grid.
// Snapshot is rebuilt lazily after membership changes.
type Cell struct {
	mu       sync.RWMutex
	objects  map[uint32]*model.WorldObject // objectID → object
	snapshot []*model.WorldObject          // sorted by objectID, nil when dirty
}

func newCell() *Cell {
	return &Cell{
		objects: make(map[uint32]*model.WorldObject),
	}
}

func (c *Cell) add(obj *model.WorldObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[obj.ObjectID()] = obj
	c.snapshot = nil
}

func (c *Cell) remove(objectID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objects, objectID)
	c.snapshot = nil
}

func (c *Cell) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}

// Objects returns an immutable snapshot of the cell's objects ordered by objectID.
// IMPORTANT: Returned slice is shared, DO NOT modify.
func (c *Cell) Objects() []*model.WorldObject {
	c.mu.RLock()
	if c.snapshot != nil || len(c.objects) == 0 {
		s := c.snapshot
		c.mu.RUnlock()
		return s
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		s := make([]*model.WorldObject, 0, len(c.objects))
		for _, obj := range c.objects {
			s = append(s, obj)
		}
		slices.SortFunc(s, func(a, b *model.WorldObject) int {
			return cmp.Compare(a.ObjectID(), b.ObjectID())
		})
		c.snapshot = s
	}
	return c.snapshot
}

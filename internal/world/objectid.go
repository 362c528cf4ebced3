package world

import "sync/atomic"

// Object ID ranges:
//
//	0x00000000 - 0x0FFFFFFF: reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: players
//	0x20000000 - 0x2FFFFFFF: enemies
const (
	PlayerIDBase uint32 = 0x10000000
	EnemyIDBase  uint32 = 0x20000000
)

// ObjectIDGenerator hands out unique object IDs per entity range.
type ObjectIDGenerator struct {
	nextPlayerID atomic.Uint32
	nextEnemyID  atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(PlayerIDBase)
	gen.nextEnemyID.Store(EnemyIDBase)
	return gen
}

// NextPlayerID generates next unique player object ID.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextEnemyID generates next unique enemy object ID.
func (g *ObjectIDGenerator) NextEnemyID() uint32 {
	return g.nextEnemyID.Add(1)
}

// IsEnemyID reports whether objectID lies in the enemy range.
func IsEnemyID(objectID uint32) bool {
	return objectID > EnemyIDBase && objectID < EnemyIDBase+0x10000000
}

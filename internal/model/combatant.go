package model

// Combatant is the capability exposed by any combat-capable entity.
// Attackers reach other entities only through this interface.
type Combatant interface {
	CurrentHealth() float64
	IsDead() bool
	ApplyDamage(amount float64) error
	TryConsumeAttack() bool
}

// HitEvent describes one landed attack.
type HitEvent struct {
	AttackerID uint32
	TargetID   uint32
	Damage     float64
	Killed     bool // this hit took the target to zero health
}

var _ Combatant = (*Stats)(nil)

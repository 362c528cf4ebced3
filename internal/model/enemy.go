package model

import "fmt"

// EnemyTemplate describes one enemy kind.
type EnemyTemplate struct {
	Name            string
	Stats           StatsTemplate
	Movement        MovementTemplate
	AggroRange      float64
	AggroBreakRange float64
}

// Validate checks stats, movement and aggro ranges.
func (t EnemyTemplate) Validate() error {
	if err := t.Stats.Validate(); err != nil {
		return fmt.Errorf("enemy %q: %w", t.Name, err)
	}
	if err := t.Movement.Validate(); err != nil {
		return fmt.Errorf("enemy %q: %w", t.Name, err)
	}
	if !(t.AggroRange >= 0) || !(t.AggroBreakRange >= t.AggroRange) {
		return fmt.Errorf("enemy %q: %w: aggro %v, break %v",
			t.Name, ErrInvalidAggroRange, t.AggroRange, t.AggroBreakRange)
	}
	return nil
}

// Enemy is a hostile character driven by an enemy AI.
type Enemy struct {
	*Character // embedding Character

	template EnemyTemplate
	spawnID  int64 // 0 when spawned outside a spawn point
}

// NewEnemy creates an Enemy at pos from the template.
func NewEnemy(objectID uint32, tmpl EnemyTemplate, pos Vec2) (*Enemy, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	stats, err := NewStats(tmpl.Stats)
	if err != nil {
		return nil, fmt.Errorf("enemy %q: %w", tmpl.Name, err)
	}

	ch, err := NewCharacter(objectID, tmpl.Name, pos, stats, tmpl.Movement)
	if err != nil {
		return nil, err
	}

	enemy := &Enemy{
		Character: ch,
		template:  tmpl,
	}
	// Data points to Enemy so attackers can type-assert the owner.
	ch.WorldObject.Data = enemy

	return enemy, nil
}

// Template returns the template the enemy was created from.
func (e *Enemy) Template() EnemyTemplate {
	return e.template
}

// AggroRange returns the enter-chase threshold.
func (e *Enemy) AggroRange() float64 {
	return e.template.AggroRange
}

// AggroBreakRange returns the exit-chase threshold.
func (e *Enemy) AggroBreakRange() float64 {
	return e.template.AggroBreakRange
}

// SpawnID returns the spawn point ID (0 if none).
func (e *Enemy) SpawnID() int64 {
	return e.spawnID
}

// SetSpawnID binds the enemy to a spawn point.
func (e *Enemy) SetSpawnID(id int64) {
	e.spawnID = id
}

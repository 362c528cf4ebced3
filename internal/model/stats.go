package model

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrInvalidDamage is returned by ApplyDamage for negative (or NaN) amounts.
	ErrInvalidDamage = errors.New("invalid damage amount")

	// ErrInvalidStats is returned when a StatsTemplate violates its bounds.
	ErrInvalidStats = errors.New("invalid stats template")
)

// StatsTemplate holds the spawn-time values of a combat-capable entity.
type StatsTemplate struct {
	MaxHealth    float64
	MaxMana      float64
	AttackDamage float64
	AttackDelay  float64 // seconds between attacks
	AttackRange  float64
}

// Validate checks template bounds.
func (t StatsTemplate) Validate() error {
	if !(t.MaxHealth > 0) {
		return fmt.Errorf("%w: max health %v must be positive", ErrInvalidStats, t.MaxHealth)
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"max mana", t.MaxMana},
		{"attack damage", t.AttackDamage},
		{"attack delay", t.AttackDelay},
		{"attack range", t.AttackRange},
	}
	for _, f := range fields {
		if !(f.value >= 0) {
			return fmt.Errorf("%w: %s %v must be non-negative", ErrInvalidStats, f.name, f.value)
		}
	}
	return nil
}

// Stats is the health/mana/attack-cooldown state owned by one combat-capable entity.
//
// Cooldown and position are mutated only by the owner's own tick; ApplyDamage may be
// called by any attacker and is serialized by mu, so death fires at most once even
// if attackers tick concurrently.
type Stats struct {
	mu sync.Mutex

	maxHealth     float64
	currentHealth float64
	maxMana       float64
	currentMana   float64

	attackDamage float64
	attackDelay  float64
	attackRange  float64
	cooldown     float64

	dead           bool
	deathListeners []func()
}

// NewStats creates Stats at full health and mana with the attack cooldown ready.
func NewStats(tmpl StatsTemplate) (*Stats, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &Stats{
		maxHealth:     tmpl.MaxHealth,
		currentHealth: tmpl.MaxHealth,
		maxMana:       tmpl.MaxMana,
		currentMana:   tmpl.MaxMana,
		attackDamage:  tmpl.AttackDamage,
		attackDelay:   tmpl.AttackDelay,
		attackRange:   tmpl.AttackRange,
	}, nil
}

// ApplyDamage subtracts amount from current health.
// Negative amounts are rejected with ErrInvalidDamage and change nothing.
// Calls after death are no-ops. The call that takes health to zero or below
// fires the death listeners, outside the lock.
func (s *Stats) ApplyDamage(amount float64) error {
	if !(amount >= 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDamage, amount)
	}

	s.mu.Lock()
	if s.dead {
		s.mu.Unlock()
		return nil
	}

	s.currentHealth -= amount
	if s.currentHealth > 0 {
		s.mu.Unlock()
		return nil
	}

	s.currentHealth = 0
	s.dead = true
	listeners := s.deathListeners
	s.deathListeners = nil
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// OnDeath subscribes fn to the death event.
// Subscribing after death is a no-op: the event has already fired.
func (s *Stats) OnDeath(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dead {
		return
	}
	s.deathListeners = append(s.deathListeners, fn)
}

// TickCooldown decrements the attack cooldown by dt, floored at zero.
func (s *Stats) TickCooldown(dt float64) {
	if !(dt > 0) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cooldown = math.Max(0, s.cooldown-dt)
}

// TryConsumeAttack is the single attack-rate gate: it returns true and resets the
// cooldown to the attack delay iff the cooldown is zero. Dead entities never attack.
func (s *Stats) TryConsumeAttack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dead || s.cooldown > 0 {
		return false
	}
	s.cooldown = s.attackDelay
	return true
}

// IsDead reports whether health has reached zero.
func (s *Stats) IsDead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dead
}

// CurrentHealth returns current health.
func (s *Stats) CurrentHealth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentHealth
}

// MaxHealth returns max health.
func (s *Stats) MaxHealth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxHealth
}

// HealthPercentage returns current health as a fraction (0.0 - 1.0).
func (s *Stats) HealthPercentage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentHealth / s.maxHealth
}

// CurrentMana returns current mana. Mana is carried, nothing consumes it yet.
func (s *Stats) CurrentMana() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMana
}

// MaxMana returns max mana.
func (s *Stats) MaxMana() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxMana
}

// AttackDamage returns damage dealt per successful attack.
func (s *Stats) AttackDamage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attackDamage
}

// AttackDelay returns the cooldown duration in seconds.
func (s *Stats) AttackDelay() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attackDelay
}

// AttackRange returns the melee reach.
func (s *Stats) AttackRange() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attackRange
}

// Cooldown returns the remaining attack cooldown in seconds.
func (s *Stats) Cooldown() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldown
}

package model

import (
	"testing"
)

func TestNewSpawn(t *testing.T) {
	spawn, err := NewSpawn(1, testEnemyTemplate(), NewVec2(3, 4), 3, 2, 10)
	if err != nil {
		t.Fatalf("NewSpawn() error = %v", err)
	}

	if spawn.SpawnID() != 1 {
		t.Errorf("SpawnID() = %d, want 1", spawn.SpawnID())
	}
	if spawn.Position() != NewVec2(3, 4) {
		t.Errorf("Position() = %+v, want (3, 4)", spawn.Position())
	}
	if spawn.MaximumCount() != 3 {
		t.Errorf("MaximumCount() = %d, want 3", spawn.MaximumCount())
	}
	if !spawn.DoRespawn() {
		t.Error("DoRespawn() = false, want true")
	}
	if spawn.CurrentCount() != 0 {
		t.Errorf("CurrentCount() = %d, want 0", spawn.CurrentCount())
	}
}

func TestNewSpawn_Invalid(t *testing.T) {
	bad := testEnemyTemplate()
	bad.AggroBreakRange = 1

	tests := []struct {
		name    string
		tmpl    EnemyTemplate
		count   int
		spread  float64
		respawn float64
	}{
		{"invalid template", bad, 1, 0, 0},
		{"zero count", testEnemyTemplate(), 0, 0, 0},
		{"negative spread", testEnemyTemplate(), 1, -1, 0},
		{"negative respawn", testEnemyTemplate(), 1, 0, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSpawn(1, tt.tmpl, Vec2{}, tt.count, tt.spread, tt.respawn); err == nil {
				t.Error("NewSpawn() error = nil, want error")
			}
		})
	}
}

func TestSpawn_SlotPosition(t *testing.T) {
	spawn, err := NewSpawn(1, testEnemyTemplate(), NewVec2(10, 10), 4, 2, 0)
	if err != nil {
		t.Fatalf("NewSpawn() error = %v", err)
	}

	want := []Vec2{
		NewVec2(10, 12),
		NewVec2(8, 10),
		NewVec2(10, 8),
		NewVec2(12, 10),
	}
	for slot, w := range want {
		if got := spawn.SlotPosition(slot); !got.ApproxEqual(w, 1e-9) {
			t.Errorf("SlotPosition(%d) = %+v, want %+v", slot, got, w)
		}
	}

	single, _ := NewSpawn(2, testEnemyTemplate(), NewVec2(1, 1), 1, 5, 0)
	if got := single.SlotPosition(0); got != NewVec2(1, 1) {
		t.Errorf("single-slot SlotPosition(0) = %+v, want center", got)
	}
}

func TestSpawn_EnemyTracking(t *testing.T) {
	spawn, _ := NewSpawn(1, testEnemyTemplate(), Vec2{}, 5, 0, 0)

	e1, _ := NewEnemy(1, testEnemyTemplate(), Vec2{})
	e2, _ := NewEnemy(2, testEnemyTemplate(), Vec2{})

	if err := spawn.AddEnemy(0, e1); err != nil {
		t.Fatalf("AddEnemy(0, e1) = %v", err)
	}
	if err := spawn.AddEnemy(1, e2); err != nil {
		t.Fatalf("AddEnemy(1, e2) = %v", err)
	}
	if spawn.CurrentCount() != 2 {
		t.Errorf("CurrentCount() = %d, want 2", spawn.CurrentCount())
	}

	if !spawn.RemoveEnemy(e1) {
		t.Error("RemoveEnemy(e1) = false, want true")
	}
	if spawn.RemoveEnemy(e1) {
		t.Error("second RemoveEnemy(e1) = true, want false")
	}
	if spawn.CurrentCount() != 1 {
		t.Errorf("CurrentCount() = %d, want 1", spawn.CurrentCount())
	}

	enemies := spawn.Enemies()
	if len(enemies) != 1 || enemies[0] != e2 {
		t.Errorf("Enemies() = %v, want [e2]", enemies)
	}
}

func TestSpawn_FreeSlotReusesLowest(t *testing.T) {
	spawn, _ := NewSpawn(1, testEnemyTemplate(), Vec2{}, 3, 2, 1)

	enemies := make([]*Enemy, 3)
	for i := range enemies {
		enemies[i], _ = NewEnemy(uint32(i+1), testEnemyTemplate(), Vec2{})
		if got := spawn.FreeSlot(); got != i {
			t.Fatalf("FreeSlot() = %d, want %d", got, i)
		}
		if err := spawn.AddEnemy(i, enemies[i]); err != nil {
			t.Fatalf("AddEnemy(%d) = %v", i, err)
		}
	}
	if got := spawn.FreeSlot(); got != -1 {
		t.Fatalf("full spawn FreeSlot() = %d, want -1", got)
	}

	spawn.RemoveEnemy(enemies[0])
	if got := spawn.FreeSlot(); got != 0 {
		t.Errorf("FreeSlot() after slot 0 died = %d, want 0", got)
	}
}

func TestSpawn_AddEnemyRejectsBadSlot(t *testing.T) {
	spawn, _ := NewSpawn(1, testEnemyTemplate(), Vec2{}, 2, 0, 0)
	e1, _ := NewEnemy(1, testEnemyTemplate(), Vec2{})
	e2, _ := NewEnemy(2, testEnemyTemplate(), Vec2{})

	if err := spawn.AddEnemy(0, e1); err != nil {
		t.Fatalf("AddEnemy(0, e1) = %v", err)
	}
	tests := []struct {
		name string
		slot int
	}{
		{"occupied", 0},
		{"negative", -1},
		{"past end", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := spawn.AddEnemy(tt.slot, e2); err == nil {
				t.Errorf("AddEnemy(%d) = nil, want error", tt.slot)
			}
		})
	}
	if spawn.CurrentCount() != 1 {
		t.Errorf("CurrentCount() = %d, want 1", spawn.CurrentCount())
	}
}

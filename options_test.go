package colorman

import (
	"testing"

	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/registry"
)

// TestNewManagerDefault tests that NewManager loads the built-in config.
func TestNewManagerDefault(t *testing.T) {
	m := newTestManager(t)

	if m.Registry() == nil {
		t.Fatal("Registry() is nil")
	}
	if got := m.Registry().Config().Name(); got != "builtin" {
		t.Errorf("config name = %q, want builtin", got)
	}
	if m.cacheCapacity != DefaultCacheCapacity {
		t.Errorf("cacheCapacity = %d, want %d", m.cacheCapacity, DefaultCacheCapacity)
	}
	if m.pool.Workers() < 1 {
		t.Errorf("Workers() = %d, want at least 1", m.pool.Workers())
	}
}

// TestWithRegistry tests injection of a preloaded registry.
func TestWithRegistry(t *testing.T) {
	reg := registry.New(engine.Fallback())
	m := newTestManager(t, WithRegistry(reg), WithConfig(engine.Builtin()))

	if m.Registry() != reg {
		t.Error("WithRegistry registry not used")
	}
	if got := m.Registry().Config().Name(); got != "fallback" {
		t.Errorf("config name = %q, want fallback (WithRegistry wins)", got)
	}
}

// TestWithConfig tests loading a custom config.
func TestWithConfig(t *testing.T) {
	cfg := engine.NewConfig("studio")
	cfg.AddColorSpace(engine.ColorSpaceDesc{Name: "ACEScg", ToReference: []engine.Op{}, FromReference: []engine.Op{}})
	cfg.AddDisplay(engine.DisplayDesc{Name: "Monitor", Views: []engine.ViewDesc{{Name: "Default", ColorSpace: "ACEScg"}}})
	cfg.SetRole(engine.RoleSceneLinear, "ACEScg")

	m := newTestManager(t, WithConfig(cfg))
	if got := m.DefaultDisplaySettings().Display; got != "Monitor" {
		t.Errorf("default display = %q, want Monitor", got)
	}
}

// TestWithConfigWithoutDisplaysFallsBack tests the fallback config.
func TestWithConfigWithoutDisplaysFallsBack(t *testing.T) {
	cfg := engine.NewConfig("empty")
	m := newTestManager(t, WithConfig(cfg))
	if got := m.Registry().Config().Name(); got != "fallback" {
		t.Errorf("config name = %q, want fallback", got)
	}
}

// TestWithWorkersAndCapacity tests pool and cache sizing.
func TestWithWorkersAndCapacity(t *testing.T) {
	m := newTestManager(t, WithWorkers(3), WithCacheCapacity(5))
	if got := m.pool.Workers(); got != 3 {
		t.Errorf("Workers() = %d, want 3", got)
	}
	if m.cacheCapacity != 5 {
		t.Errorf("cacheCapacity = %d, want 5", m.cacheCapacity)
	}
}

// TestMultipleOptions tests that later options override earlier ones.
func TestMultipleOptions(t *testing.T) {
	m := newTestManager(t, WithWorkers(2), WithWorkers(1))
	if got := m.pool.Workers(); got != 1 {
		t.Errorf("Workers() = %d, want 1", got)
	}
}

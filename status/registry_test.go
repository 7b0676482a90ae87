package status

import (
	"testing"
)

func TestRegistrySnapshot(t *testing.T) {
	reg := NewRegistry()

	ticks := reg.Ints.Get("sched.ticks")
	ticks.Add(3)
	if reg.Ints.Get("sched.ticks") != ticks {
		t.Fatal("Get must return the cached pointer")
	}

	peak := reg.Floats.Get("playfield.speed_peak")
	peak.Max(4.5)
	peak.Max(2.0)

	snap := reg.Snapshot()
	if snap["sched.ticks"] != 3 {
		t.Errorf("sched.ticks = %v, want 3", snap["sched.ticks"])
	}
	if snap["playfield.speed_peak"] != 4.5 {
		t.Errorf("speed_peak = %v, want 4.5", snap["playfield.speed_peak"])
	}
	if reg.TotalCount() != 2 {
		t.Errorf("TotalCount = %d, want 2", reg.TotalCount())
	}
}

func TestMetricMapRangeSorted(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	m.Get("b")
	m.Get("a")
	m.Get("c")

	var keys []string
	m.Range(func(key string, _ *AtomicFloat) {
		keys = append(keys, key)
	})
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("keys = %v, want [a b c]", keys)
	}
}

func TestMetricMapRangeAllowsRegistration(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	m.Get("a")

	visited := 0
	m.Range(func(key string, _ *AtomicFloat) {
		visited++
		m.Get(key + ".derived")
	})
	if visited != 1 {
		t.Errorf("visited = %d, want 1", visited)
	}
	if got := m.Keys(); len(got) != 2 || got[1] != "a.derived" {
		t.Errorf("keys = %v, want [a a.derived]", got)
	}
}

package cron

import "testing"

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	a, b := &testJob{name: "a"}, &testJob{name: "b"}
	registry := NewRegistry(a, nil)
	if err := registry.Register(b); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(nil); err != nil {
		t.Fatalf("nil job should be ignored: %v", err)
	}

	jobs := registry.Jobs()
	if len(jobs) != 2 || jobs[0] != a || jobs[1] != b {
		t.Fatalf("unexpected jobs %v", jobs)
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("internal slice leaked")
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	registry := NewRegistry(&testJob{name: "reconcile"})
	if err := registry.Register(&testJob{name: "reconcile"}); err == nil {
		t.Fatal("expected duplicate name error")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected constructor to panic on duplicates")
		}
	}()
	NewRegistry(&testJob{name: "x"}, &testJob{name: "x"})
}

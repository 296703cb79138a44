package values

import "testing"

func TestFeatureStoreEnableDisable(t *testing.T) {
	f := NewFeatureStore()

	if f.Exists("fast") {
		t.Error("expected fast disabled initially")
	}

	f.Enable("fast")
	if !f.Exists("fast") {
		t.Error("expected fast enabled")
	}

	f.Enable("fast") // idempotent
	if len(f.Names()) != 1 {
		t.Errorf("expected idempotent Enable, got names %v", f.Names())
	}

	f.Disable("fast")
	if f.Exists("fast") {
		t.Error("expected fast disabled after Disable")
	}

	f.Disable("fast") // no-op, must not panic
}

func TestFeatureStoreNamesOrder(t *testing.T) {
	f := NewFeatureStore()
	f.Enable("c")
	f.Enable("a")
	f.Enable("b")

	want := []string{"c", "a", "b"}
	got := f.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

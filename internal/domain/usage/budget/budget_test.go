package budget

import "testing"

func TestNew(t *testing.T) {
	b := New(5000, 3458, false, 1700000000000)
	if b.SearchesLimit() != 5000 {
		t.Errorf("SearchesLimit() = %d", b.SearchesLimit())
	}
	if b.SearchesRemaining() != 3458 {
		t.Errorf("SearchesRemaining() = %d", b.SearchesRemaining())
	}
	if b.IsExhausted() {
		t.Error("IsExhausted() = true, want false")
	}
	if b.ResetsAt() != 1700000000000 {
		t.Errorf("ResetsAt() = %d", b.ResetsAt())
	}
}

func TestNew_Exhausted(t *testing.T) {
	b := New(1000, 0, true, 0)
	if !b.IsExhausted() {
		t.Error("IsExhausted() = false, want true")
	}
	if b.SearchesRemaining() != 0 {
		t.Errorf("SearchesRemaining() = %d", b.SearchesRemaining())
	}
}

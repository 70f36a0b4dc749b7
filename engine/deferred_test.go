package engine

import (
	"reflect"
	"testing"
)

// TestDeferredOrder verifies target-tick order with FIFO ties
func TestDeferredOrder(t *testing.T) {
	var d Deferred
	var got []string
	d.Schedule(5, func() { got = append(got, "5a") })
	d.Schedule(3, func() { got = append(got, "3") })
	d.Schedule(5, func() { got = append(got, "5b") })
	d.Schedule(9, func() { got = append(got, "9") })

	if n := d.RunDue(2); n != 0 {
		t.Errorf("Expected nothing due at 2, ran %d", n)
	}
	d.RunDue(5)
	if want := []string{"3", "5a", "5b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if d.Pending() != 1 {
		t.Errorf("Expected 1 pending, got %d", d.Pending())
	}
}

// TestDeferredRunsExactlyAtTarget steps tick by tick
func TestDeferredRunsExactlyAtTarget(t *testing.T) {
	var d Deferred
	ranAt := int64(-1)
	var now int64
	d.Schedule(4, func() { ranAt = now })
	for now = 0; now < 10; now++ {
		d.RunDue(now)
	}
	if ranAt != 4 {
		t.Errorf("Expected task to run at tick 4, ran at %d", ranAt)
	}
}

// TestDeferredChained verifies tasks scheduled for now by a running task run in the same pass
func TestDeferredChained(t *testing.T) {
	var d Deferred
	var got []int
	d.Schedule(1, func() {
		got = append(got, 1)
		d.Schedule(1, func() { got = append(got, 2) })
		d.Schedule(2, func() { got = append(got, 3) })
	})

	d.RunDue(1)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Expected [1 2], got %v", got)
	}
	d.RunDue(2)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", got)
	}
}

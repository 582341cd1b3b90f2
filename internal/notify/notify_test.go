package notify

import (
	"testing"
	"time"
)

func TestPushAssignsDistinctIDs(t *testing.T) {
	c := NewCenter()
	defer c.Close()

	a := c.Push(Info, "first")
	b := c.Push(Info, "second")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids: %q %q", a.ID, b.ID)
	}
	if got := c.List(); len(got) != 2 || got[0].ID != a.ID {
		t.Fatalf("list: %+v", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := NewCenter()
	defer c.Close()

	n := c.Push(Success, "saved")
	if !c.Remove(n.ID) {
		t.Fatal("first remove should report true")
	}
	if c.Remove(n.ID) {
		t.Fatal("second remove should be a no-op")
	}
	if c.Remove("missing-id") {
		t.Fatal("removing an unknown id should be a no-op")
	}
	if got := c.List(); len(got) != 0 {
		t.Fatalf("list after remove: %+v", got)
	}
}

func TestAutoDismiss(t *testing.T) {
	c := NewCenter()
	defer c.Close()
	c.SetDuration(Warning, 10*time.Millisecond)

	c.Push(Warning, "heads up")
	deadline := time.After(time.Second)
	for len(c.List()) != 0 {
		select {
		case <-deadline:
			t.Fatal("notification never auto-dismissed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDisabledAutoDismissKeepsNotification(t *testing.T) {
	c := NewCenter()
	defer c.Close()
	c.SetDuration(Error, 0)

	c.Push(Error, "it broke")
	time.Sleep(20 * time.Millisecond)
	if got := c.List(); len(got) != 1 {
		t.Fatalf("notification dismissed despite disabled timer: %+v", got)
	}
}

func TestDefaultDurationsOrdering(t *testing.T) {
	// Errors stay visible longer than successes, successes longer than info.
	if !(defaultDurations[Error] > defaultDurations[Warning] &&
		defaultDurations[Warning] > defaultDurations[Success] &&
		defaultDurations[Success] > defaultDurations[Info]) {
		t.Fatalf("duration ordering: %+v", defaultDurations)
	}
}

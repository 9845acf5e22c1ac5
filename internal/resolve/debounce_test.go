// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var fired int32

	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	d.Cancel()

	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("fired %d times after Cancel, want 0", got)
	}
}

func TestDebouncerZeroIntervalFiresImmediately(t *testing.T) {
	d := NewDebouncer(0)
	ch := make(chan struct{})

	d.Trigger(func() { close(ch) })

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("trigger never fired")
	}
}

package debug

import "testing"

func TestSetBreakpointTripsOnMatchingPC(t *testing.T) {
	d := NewDebugger()
	key := d.SetBreakpoint(0x0042)

	if !d.CheckBreakpoint(0x0042) {
		t.Fatal("expected breakpoint at 0x0042 to trip")
	}
	if d.CheckBreakpoint(0x0043) {
		t.Fatal("did not expect a breakpoint at an unrelated PC")
	}

	bp, ok := d.GetBreakpoint(key)
	if !ok {
		t.Fatalf("GetBreakpoint(%q): not found", key)
	}
	if bp.HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", bp.HitCount)
	}
}

func TestDisabledBreakpointDoesNotTrip(t *testing.T) {
	d := NewDebugger()
	key := d.SetBreakpoint(0x0010)
	d.DisableBreakpoint(key)

	if d.CheckBreakpoint(0x0010) {
		t.Fatal("disabled breakpoint should not trip")
	}

	d.EnableBreakpoint(key)
	if !d.CheckBreakpoint(0x0010) {
		t.Fatal("re-enabled breakpoint should trip")
	}
}

func TestStepHaltsAfterCountInstructions(t *testing.T) {
	d := NewDebugger()
	d.Step(2)

	if !d.ShouldBreak(0x0001) {
		t.Fatal("expected first step to break")
	}
	if !d.ShouldBreak(0x0002) {
		t.Fatal("expected second step to break")
	}
	if !d.IsPaused() {
		t.Fatal("expected stepping to leave the debugger paused once exhausted")
	}
}

func TestCallFramePushPopOrdersLIFO(t *testing.T) {
	d := NewDebugger()
	d.PushCallFrame(0x0100, "main")
	d.PushCallFrame(0x0200, "update")

	frame := d.PopCallFrame()
	if frame == nil || frame.PC != 0x0200 || frame.FunctionName != "update" {
		t.Fatalf("PopCallFrame = %+v, want PC=0x0200 FunctionName=update", frame)
	}

	frame = d.PopCallFrame()
	if frame == nil || frame.PC != 0x0100 {
		t.Fatalf("PopCallFrame = %+v, want PC=0x0100", frame)
	}

	if d.PopCallFrame() != nil {
		t.Fatal("expected nil from an empty call stack")
	}
}

func TestRemoveBreakpointClearsIt(t *testing.T) {
	d := NewDebugger()
	key := d.SetBreakpoint(0x0005)

	if !d.RemoveBreakpoint(key) {
		t.Fatal("RemoveBreakpoint: expected true for an existing key")
	}
	if d.CheckBreakpoint(0x0005) {
		t.Fatal("removed breakpoint should not trip")
	}
	if d.RemoveBreakpoint(key) {
		t.Fatal("RemoveBreakpoint: expected false the second time")
	}
}

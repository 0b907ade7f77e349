package vm

import "testing"

// TestCooperativeSchedulingScenario reproduces spec.md §8 scenario 4:
// threads 1..63 start paused, thread 0 active; ControlThreads(1, 63,
// resume) followed by Kill on thread 0 run for one tic. Afterward,
// thread 0 must be inactive, threads 1..63 still paused (the resume
// takes effect next tic), with scheduled_pause_state = running queued
// for 1..63.
func TestCooperativeSchedulingScenario(t *testing.T) {
	table := NewThreadTable()
	for id := uint8(1); id < ThreadCount; id++ {
		th, _ := table.Get(id)
		th.Pause = PauseStatePaused
	}

	if err := table.ScheduleRange(1, 63, ThreadOpResume); err != nil {
		t.Fatalf("ScheduleRange: %v", err)
	}

	// Kill acts immediately on the running thread, bypassing scheduling.
	th0, _ := table.Get(0)
	th0.Active = false

	for id := uint8(1); id < ThreadCount; id++ {
		th, _ := table.Get(id)
		if th.Pause != PauseStatePaused {
			t.Fatalf("thread %d pause state = %v before ApplyScheduled, want Paused", id, th.Pause)
		}
		if th.scheduled == nil || !th.scheduled.hasPause || th.scheduled.pause != PauseStateRunning {
			t.Fatalf("thread %d missing scheduled resume", id)
		}
	}
	if th0.Active {
		t.Fatal("thread 0 should already be inactive after Kill")
	}

	table.ApplyScheduled()
	for id := uint8(1); id < ThreadCount; id++ {
		th, _ := table.Get(id)
		if th.Pause != PauseStateRunning {
			t.Fatalf("thread %d pause state after next tic's ApplyScheduled = %v, want Running", id, th.Pause)
		}
	}
}

func TestScheduleRangeRejectsInvertedRange(t *testing.T) {
	table := NewThreadTable()
	if err := table.ScheduleRange(5, 2, ThreadOpPause); err == nil {
		t.Fatal("expected ErrInvalidThreadRange")
	}
}

func TestScheduleActivateSetsExecutionState(t *testing.T) {
	table := NewThreadTable()
	if err := table.ScheduleActivate(3, 0x1234); err != nil {
		t.Fatalf("ScheduleActivate: %v", err)
	}
	table.ApplyScheduled()
	th, _ := table.Get(3)
	if !th.Active || th.PC != 0x1234 {
		t.Fatalf("thread 3 = {active=%v, pc=%#x}, want {true, 0x1234}", th.Active, th.PC)
	}
}

func TestNewThreadTableOnlyThreadZeroActive(t *testing.T) {
	table := NewThreadTable()
	th0, _ := table.Get(0)
	if !th0.Active || th0.PC != 0 {
		t.Fatalf("thread 0 = {active=%v, pc=%#x}, want {true, 0}", th0.Active, th0.PC)
	}
	th1, _ := table.Get(1)
	if th1.Active {
		t.Fatal("thread 1 should start inactive")
	}
}

package vm

import "errors"

// ThreadCount is the number of cooperative VM threads.
const ThreadCount = 64

// PauseState is whether a thread is eligible to run this tic.
type PauseState uint8

const (
	PauseStateRunning PauseState = iota
	PauseStatePaused
)

// ThreadOp is a scheduled pause-state transition, as requested by the
// ControlThreads opcode.
type ThreadOp uint8

const (
	ThreadOpResume ThreadOp = iota
	ThreadOpPause
	ThreadOpDeactivate
)

var (
	// ErrInvalidThreadID is returned for a thread index outside
	// [0, ThreadCount).
	ErrInvalidThreadID = errors.New("vm: invalid thread id")
	// ErrInvalidThreadRange is returned when start > end for a thread
	// range operation.
	ErrInvalidThreadRange = errors.New("vm: invalid thread range")
	// ErrInvalidThreadOperation is returned for an unrecognized ThreadOp.
	ErrInvalidThreadOperation = errors.New("vm: invalid thread operation")
)

// Thread is one of the 64 cooperative execution contexts. Active
// threads carry a resume address; scheduled fields are applied, then
// cleared, at the start of the next tic (§4.5, §3 Thread).
type Thread struct {
	Active    bool
	PC        uint16
	Pause     PauseState
	Stack     Stack
	scheduled *scheduledThreadState
}

type scheduledThreadState struct {
	hasExec bool
	active  bool
	pc      uint16

	hasPause bool
	pause    PauseState
}

// ThreadTable owns all 64 threads and the scheduling operations the
// ControlThreads/ActivateThread opcodes and the tic loop drive.
type ThreadTable struct {
	threads [ThreadCount]Thread
}

// NewThreadTable returns a table with every thread inactive except
// thread 0, which is active at program address 0 (the main thread at
// game-part load, per §3 Lifecycle).
func NewThreadTable() *ThreadTable {
	t := &ThreadTable{}
	t.threads[0].Active = true
	t.threads[0].PC = 0
	return t
}

// Reset reinitializes every thread as at game-part load.
func (t *ThreadTable) Reset() {
	*t = *NewThreadTable()
}

// Get returns a pointer to thread id.
func (t *ThreadTable) Get(id uint8) (*Thread, error) {
	if int(id) >= ThreadCount {
		return nil, ErrInvalidThreadID
	}
	return &t.threads[id], nil
}

// ScheduleActivate arranges for thread id to become active at addr at
// the start of the next tic (the ActivateThread opcode).
func (t *ThreadTable) ScheduleActivate(id uint8, addr uint16) error {
	th, err := t.Get(id)
	if err != nil {
		return err
	}
	if th.scheduled == nil {
		th.scheduled = &scheduledThreadState{}
	}
	th.scheduled.hasExec = true
	th.scheduled.active = true
	th.scheduled.pc = addr
	return nil
}

// ScheduleRange schedules op for every thread in [start, end] (the
// ControlThreads opcode). Requires start <= end.
func (t *ThreadTable) ScheduleRange(start, end uint8, op ThreadOp) error {
	if start > end {
		return ErrInvalidThreadRange
	}
	if int(end) >= ThreadCount {
		return ErrInvalidThreadID
	}
	for id := start; ; id++ {
		th := &t.threads[id]
		if th.scheduled == nil {
			th.scheduled = &scheduledThreadState{}
		}
		switch op {
		case ThreadOpResume:
			th.scheduled.hasPause = true
			th.scheduled.pause = PauseStateRunning
		case ThreadOpPause:
			th.scheduled.hasPause = true
			th.scheduled.pause = PauseStatePaused
		case ThreadOpDeactivate:
			th.scheduled.hasExec = true
			th.scheduled.active = false
		default:
			return ErrInvalidThreadOperation
		}
		if id == end {
			break
		}
	}
	return nil
}

// ThreadSnapshot is one thread's save-stateable fields. The call stack
// is never included: it is always empty at a tic boundary, since
// runThread clears it before every execution.
type ThreadSnapshot struct {
	Active bool
	PC     uint16
	Pause  PauseState
}

// Snapshot returns every thread's save-stateable state, in index order.
// Only valid to call between tics, when no thread has a pending
// scheduled transition.
func (t *ThreadTable) Snapshot() [ThreadCount]ThreadSnapshot {
	var out [ThreadCount]ThreadSnapshot
	for i, th := range t.threads {
		out[i] = ThreadSnapshot{Active: th.Active, PC: th.PC, Pause: th.Pause}
	}
	return out
}

// RestoreFrom replaces every thread's state from a prior Snapshot,
// clearing call stacks and scheduled transitions.
func (t *ThreadTable) RestoreFrom(snap [ThreadCount]ThreadSnapshot) {
	for i, s := range snap {
		t.threads[i] = Thread{Active: s.Active, PC: s.PC, Pause: s.Pause}
	}
}

// ApplyScheduled copies every thread's scheduled state into its current
// state and clears the scheduled fields, in index order. Called once at
// the start of each tic, before any thread runs (§4.5 step 3).
func (t *ThreadTable) ApplyScheduled() {
	for i := range t.threads {
		th := &t.threads[i]
		if th.scheduled == nil {
			continue
		}
		if th.scheduled.hasExec {
			th.Active = th.scheduled.active
			if th.scheduled.active {
				th.PC = th.scheduled.pc
			}
		}
		if th.scheduled.hasPause {
			th.Pause = th.scheduled.pause
		}
		th.scheduled = nil
	}
}

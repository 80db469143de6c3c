package system

// Step advances a task at time now. It returns the time of its next
// resumption, or done once the task has finished.
type Step func(now float64) (next float64, done bool)

// Task is a cancellable step sequence polled by Tasks.
type Task struct {
	Name   string
	NextAt float64

	step      Step
	cancelled bool
	done      bool
}

// Cancel stops the task before its next resumption.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

func (t *Task) Cancelled() bool { return t != nil && t.cancelled }

func (t *Task) Done() bool { return t != nil && t.done }

// Tasks polls its tasks once per tick in start order. A task resumes at most
// once per poll; returning a next time at or before now resumes it on the
// following poll.
type Tasks struct {
	tasks []*Task
}

// Start schedules step to first run at time at.
func (ts *Tasks) Start(name string, at float64, step Step) *Task {
	t := &Task{Name: name, NextAt: at, step: step}
	if step == nil {
		t.done = true
		return t
	}
	ts.tasks = append(ts.tasks, t)
	return t
}

// Run resumes every task that is due at now and drops finished ones.
func (ts *Tasks) Run(now float64) {
	if ts == nil || len(ts.tasks) == 0 {
		return
	}
	// Steps may start new tasks; those first run on the next poll.
	due := append([]*Task(nil), ts.tasks...)
	for _, t := range due {
		if t.cancelled || t.done || t.NextAt > now {
			continue
		}
		next, done := t.step(now)
		if done {
			t.done = true
			continue
		}
		t.NextAt = next
	}

	live := ts.tasks[:0]
	for _, t := range ts.tasks {
		if !t.cancelled && !t.done {
			live = append(live, t)
		}
	}
	clear(ts.tasks[len(live):])
	ts.tasks = live
}

// CancelAll cancels every scheduled task.
func (ts *Tasks) CancelAll() {
	if ts == nil {
		return
	}
	for _, t := range ts.tasks {
		t.cancelled = true
	}
	ts.tasks = nil
}

// Len reports the number of live tasks.
func (ts *Tasks) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.tasks)
}

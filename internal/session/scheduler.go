package session

import (
	"sync"
	"time"
)

// Task is a cancellable scheduled unit of work. Cancel is idempotent and
// safe to call from the owning goroutine at any time; a cancelled task
// never fires again.
type Task interface {
	Cancel()
}

// Scheduler creates cancellable periodic and one-shot tasks. The session
// controller owns every task handle it creates and guarantees cancellation
// on pause and session end.
type Scheduler interface {
	// Every runs fn at each interval until the task is cancelled.
	Every(interval time.Duration, fn func()) Task
	// After runs fn once after the delay unless cancelled first.
	After(delay time.Duration, fn func()) Task
}

// TimerScheduler is the real-time Scheduler backed by the runtime timers.
type TimerScheduler struct{}

// NewTimerScheduler creates a TimerScheduler.
func NewTimerScheduler() *TimerScheduler { return &TimerScheduler{} }

func (*TimerScheduler) Every(interval time.Duration, fn func()) Task {
	t := &periodicTask{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

func (*TimerScheduler) After(delay time.Duration, fn func()) Task {
	return &oneShotTask{timer: time.AfterFunc(delay, fn)}
}

type periodicTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *periodicTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
}

type oneShotTask struct {
	timer *time.Timer
}

func (t *oneShotTask) Cancel() {
	t.timer.Stop()
}

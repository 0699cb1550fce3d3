package application

import (
	"errors"
	"sync"
	"testing"

	"mylibrary/internal/ports"
)

func TestWorkflows_RejectsReentry(t *testing.T) {
	w := NewWorkflows()

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Do(WorkflowDeleteBook, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	calls := 0
	err := w.Do(WorkflowDeleteBook, func() error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("second Do() error = %v, want ErrBusy", err)
	}
	if calls != 0 {
		t.Errorf("busy workflow ran its function")
	}

	if err := w.Do(WorkflowTogglePin, func() error { return nil }); err != nil {
		t.Errorf("other workflows must not be blocked, got %v", err)
	}

	close(release)
	wg.Wait()

	if w.Busy(WorkflowDeleteBook) {
		t.Errorf("workflow still marked busy after completion")
	}
	if err := w.Do(WorkflowDeleteBook, func() error { return nil }); err != nil {
		t.Errorf("Do() after completion error = %v", err)
	}
}

func TestWorkflows_ReleasesOnError(t *testing.T) {
	w := NewWorkflows()
	boom := errors.New("boom")

	if err := w.Do(WorkflowImport, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want boom", err)
	}
	if w.Busy(WorkflowImport) {
		t.Errorf("failed workflow still marked busy")
	}
}

func TestState_RunNotifiesWhenBusy(t *testing.T) {
	var got []string
	notifier := ports.NotifierFunc(func(level ports.Level, message string) {
		if level == ports.LevelWarning {
			got = append(got, message)
		}
	})
	st := &State{Notifier: notifier, Workflows: NewWorkflows()}

	err := st.Run(WorkflowSaveBook, func() error {
		return st.Run(WorkflowSaveBook, func() error { return nil })
	})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("nested Run() error = %v, want ErrBusy", err)
	}
	if len(got) != 1 {
		t.Errorf("expected one busy warning, got %v", got)
	}
}

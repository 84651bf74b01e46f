package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
)

// funcExecutor — executor из функции, для тестов.
type funcExecutor func(ctx context.Context, companyID string) (*Result, error)

func (f funcExecutor) Execute(ctx context.Context, companyID string) (*Result, error) {
	return f(ctx, companyID)
}

func job(companyID string) *domain.JobRow {
	return &domain.JobRow{CompanyID: companyID, Interval: time.Hour}
}

func collect(ch <-chan Outcome) []Outcome {
	var out []Outcome
	for o := range ch {
		out = append(out, o)
	}
	return out
}

func TestDispatch_AllSucceed(t *testing.T) {
	r := New(Config{})
	jobs := []*domain.JobRow{job("A"), job("B"), job("C")}

	completedAt := time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC)
	exec := funcExecutor(func(_ context.Context, _ string) (*Result, error) {
		return &Result{CompletedAt: completedAt}, nil
	})

	outcomes := collect(r.Dispatch(context.Background(), jobs, exec))
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err != nil {
			t.Errorf("company %s: unexpected error: %v", o.Job.CompanyID, o.Err)
		}
		if !o.Result.CompletedAt.Equal(completedAt) {
			t.Errorf("company %s: wrong completion time", o.Job.CompanyID)
		}
	}
}

func TestDispatch_JobsStartConcurrently(t *testing.T) {
	// все задачи должны начать выполняться, не дожидаясь друг друга:
	// каждая блокируется, пока не стартуют все три
	r := New(Config{})
	jobs := []*domain.JobRow{job("A"), job("B"), job("C")}

	var started sync.WaitGroup
	started.Add(len(jobs))
	release := make(chan struct{})

	exec := funcExecutor(func(ctx context.Context, _ string) (*Result, error) {
		started.Done()
		select {
		case <-release:
			return &Result{CompletedAt: time.Now()}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := r.Dispatch(ctx, jobs, exec)

	done := make(chan struct{})
	go func() {
		started.Wait()
		close(done)
	}()

	select {
	case <-done:
		// все три стартовали одновременно
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not start concurrently")
	}

	close(release)
	if got := len(collect(ch)); got != 3 {
		t.Fatalf("expected 3 outcomes, got %d", got)
	}
}

func TestDispatch_FailureIsolated(t *testing.T) {
	r := New(Config{})
	jobs := []*domain.JobRow{job("A"), job("B")}

	boom := errors.New("bind unavailable")
	exec := funcExecutor(func(_ context.Context, companyID string) (*Result, error) {
		if companyID == "A" {
			return nil, boom
		}
		return &Result{CompletedAt: time.Now()}, nil
	})

	outcomes := collect(r.Dispatch(context.Background(), jobs, exec))
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	var failed, succeeded int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++

			var execErr *domain.ExecutionError
			if !errors.As(o.Err, &execErr) {
				t.Errorf("expected *domain.ExecutionError, got %T", o.Err)
			} else if execErr.CompanyID != "A" {
				t.Errorf("expected company A in error, got %s", execErr.CompanyID)
			}
			if !errors.Is(o.Err, boom) {
				t.Error("execution error should wrap the cause")
			}
		} else {
			succeeded++
		}
	}
	if failed != 1 || succeeded != 1 {
		t.Errorf("expected 1 failed + 1 succeeded, got %d/%d", failed, succeeded)
	}
}

func TestDispatch_InFlightGuard(t *testing.T) {
	r := New(Config{})

	blocked := make(chan struct{})
	release := make(chan struct{})
	exec := funcExecutor(func(_ context.Context, _ string) (*Result, error) {
		close(blocked)
		<-release
		return &Result{CompletedAt: time.Now()}, nil
	})

	// первый dispatch: компания A повисает в выполнении
	first := r.Dispatch(context.Background(), []*domain.JobRow{job("A")}, exec)
	<-blocked

	// второй dispatch той же компании — пропуск, не параллельный запуск
	second := collect(r.Dispatch(context.Background(), []*domain.JobRow{job("A")}, exec))
	if len(second) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(second))
	}
	if !second[0].Skipped {
		t.Error("expected outcome to be skipped")
	}
	if !errors.Is(second[0].Err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", second[0].Err)
	}

	close(release)
	collect(first)

	// после завершения компания снова доступна
	third := collect(r.Dispatch(context.Background(), []*domain.JobRow{job("A")},
		funcExecutor(func(_ context.Context, _ string) (*Result, error) {
			return &Result{CompletedAt: time.Now()}, nil
		})))
	if third[0].Err != nil {
		t.Errorf("company should be runnable again, got %v", third[0].Err)
	}
}

func TestDispatch_MaxConcurrent(t *testing.T) {
	r := New(Config{MaxConcurrent: 1})
	jobs := []*domain.JobRow{job("A"), job("B"), job("C")}

	var mu sync.Mutex
	var running, peak int

	exec := funcExecutor(func(_ context.Context, _ string) (*Result, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return &Result{CompletedAt: time.Now()}, nil
	})

	collect(r.Dispatch(context.Background(), jobs, exec))

	if peak > 1 {
		t.Errorf("expected at most 1 concurrent job, got %d", peak)
	}
}

func TestDispatch_NoJobs(t *testing.T) {
	r := New(Config{})
	outcomes := collect(r.Dispatch(context.Background(), nil, funcExecutor(
		func(_ context.Context, _ string) (*Result, error) {
			t.Fatal("executor should not be called")
			return nil, nil
		})))
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}

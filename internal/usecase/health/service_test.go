package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockChecker struct {
	err   error
	calls int
}

func (m *mockChecker) HealthCheck(_ context.Context) error {
	m.calls++
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{}, &mockChecker{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{ComponentOCR, ComponentSummarizer, ComponentNotion} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_NotionError(t *testing.T) {
	svc := New(&mockChecker{}, &mockChecker{}, &mockChecker{err: errors.New("unauthorized")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentNotion] != CheckError {
		t.Errorf("expected notion %q, got %q", CheckError, r.Checks[ComponentNotion])
	}
	if r.Checks[ComponentOCR] != CheckOK {
		t.Errorf("expected ocr %q, got %q", CheckOK, r.Checks[ComponentOCR])
	}
}

func TestCheck_AllFail(t *testing.T) {
	down := errors.New("down")
	svc := New(&mockChecker{err: down}, &mockChecker{err: down}, &mockChecker{err: down})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_SharedCheckerCalledPerComponent(t *testing.T) {
	shared := &mockChecker{}
	svc := New(shared, shared, &mockChecker{})
	svc.Check(context.Background())

	if shared.calls != 2 {
		t.Errorf("expected 2 calls, got %d", shared.calls)
	}
}

func TestCheck_NilCheckerSkipped(t *testing.T) {
	svc := New(&mockChecker{}, &mockChecker{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentNotion]; ok {
		t.Error("notion check should be absent when checker is nil")
	}
}

func TestCheck_NoCheckers(t *testing.T) {
	r := New(nil, nil, nil).Check(context.Background())
	if r.Status != Healthy || len(r.Checks) != 0 {
		t.Errorf("expected empty healthy report, got %+v", r)
	}
}

package view

import (
	"context"
	"errors"
	"testing"
)

func TestLoader_LoadSuccess(t *testing.T) {
	var l Loader[[]string]

	if l.State() != StateIdle {
		t.Fatalf("state = %v, want StateIdle", l.State())
	}

	data, err := l.Load(context.Background(), func(context.Context) ([]string, error) {
		if l.State() != StateLoading {
			t.Errorf("state during fetch = %v, want StateLoading", l.State())
		}
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("data = %v, want 2 items", data)
	}
	if l.State() != StateLoaded {
		t.Fatalf("state = %v, want StateLoaded", l.State())
	}

	got, ok := l.Data()
	if !ok || len(got) != 2 {
		t.Fatalf("Data = %v ok=%v", got, ok)
	}
}

func TestLoader_LoadError(t *testing.T) {
	var l Loader[int]

	fetchErr := errors.New("backend down")
	_, err := l.Load(context.Background(), func(context.Context) (int, error) {
		return 0, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("error = %v, want %v", err, fetchErr)
	}
	if l.State() != StateError {
		t.Fatalf("state = %v, want StateError", l.State())
	}
	if !errors.Is(l.Err(), fetchErr) {
		t.Fatalf("Err = %v, want %v", l.Err(), fetchErr)
	}
	if _, ok := l.Data(); ok {
		t.Fatal("Data ok = true after error, want false")
	}
}

func TestLoader_SupersededResponseDiscarded(t *testing.T) {
	var l Loader[string]

	// Второй запрос стартует, пока первый ещё выполняется: результат
	// первого должен быть отброшен и не перетереть данные второго.
	_, err := l.Load(context.Background(), func(ctx context.Context) (string, error) {
		if _, err := l.Load(ctx, func(context.Context) (string, error) {
			return "newer", nil
		}); err != nil {
			t.Errorf("inner Load error: %v", err)
		}
		return "stale", nil
	})

	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("outer error = %v, want ErrSuperseded", err)
	}

	data, ok := l.Data()
	if !ok || data != "newer" {
		t.Fatalf("Data = %q ok=%v, want \"newer\"", data, ok)
	}
	if l.State() != StateLoaded {
		t.Fatalf("state = %v, want StateLoaded", l.State())
	}
}

func TestLoader_ResetSupersedesInFlight(t *testing.T) {
	var l Loader[int]

	_, err := l.Load(context.Background(), func(context.Context) (int, error) {
		l.Reset()
		return 42, nil
	})
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("error = %v, want ErrSuperseded", err)
	}
	if l.State() != StateIdle {
		t.Fatalf("state = %v, want StateIdle after Reset", l.State())
	}
}

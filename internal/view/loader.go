// Package view содержит экраны дашборда — тонких потребителей клиента API —
// и машину состояний загрузки данных для каждого экрана.
package view

import (
	"context"
	"errors"
	"sync"
)

// LoadState описывает состояние загрузки данных экрана.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateError
)

// ErrSuperseded означает, что ответ пришёл для запроса, вытесненного более
// новым, и был отброшен. Данные и состояние экрана при этом не меняются.
var ErrSuperseded = errors.New("response superseded by a newer request")

// Loader хранит состояние загрузки одного экрана. Счётчик поколений делает
// поведение «устаревший ответ после перехода» определённым: результат
// запроса применяется, только если за время его выполнения не начался новый.
type Loader[T any] struct {
	mu    sync.Mutex
	gen   uint64
	state LoadState
	data  T
	err   error
}

// Load выполняет fetch и применяет результат, если запрос не был вытеснен.
// Вытесненный результат отбрасывается с ошибкой ErrSuperseded.
func (l *Loader[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state = StateLoading
	l.mu.Unlock()

	data, err := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		var zero T
		return zero, ErrSuperseded
	}

	if err != nil {
		l.state = StateError
		l.err = err
		var zero T
		return zero, err
	}

	l.state = StateLoaded
	l.data = data
	l.err = nil
	return data, nil
}

// Reset возвращает экран в исходное состояние и вытесняет запросы в полёте.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state = StateIdle
	var zero T
	l.data = zero
	l.err = nil
}

// State возвращает текущее состояние загрузки.
func (l *Loader[T]) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Data возвращает загруженные данные и признак их наличия.
func (l *Loader[T]) Data() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateLoaded {
		var zero T
		return zero, false
	}
	return l.data, true
}

// Err возвращает ошибку последней неудачной загрузки.
func (l *Loader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

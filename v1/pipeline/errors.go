package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrItemExists is returned by Items.Add when the key is already present.
	ErrItemExists = errors.New("item already exists")

	// ErrSlotOccupied is returned by Slot.Store when the slot already holds a value.
	ErrSlotOccupied = errors.New("slot already occupied")

	// ErrNilObserver is returned when registering a nil observer.
	ErrNilObserver = errors.New("observer is nil")

	// ErrHandlerPanic matches every *PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// PanicError is reported to error hooks when the handler panics.
type PanicError struct {
	// Value is the value passed to panic.
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Is reports whether target is ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

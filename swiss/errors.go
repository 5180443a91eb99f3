/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input. Table is 0 when the problem is not
// tied to a single table.
type ValidationError struct {
	Table int
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Table == 0 {
		return e.Msg
	}
	return fmt.Sprintf("table %d: %s", e.Table, e.Msg)
}

func validationErrorf(table int, format string, args ...any) error {
	return &ValidationError{Table: table, Msg: fmt.Sprintf(format, args...)}
}

// StateError rejects an operation that is not allowed in the tournament's
// current state. Callers should surface it rather than retry.
type StateError struct {
	Msg string
	Err error
}

func (e *StateError) Error() string {
	return e.Msg
}

func (e *StateError) Unwrap() error {
	return e.Err
}

func StateErrorf(format string, args ...any) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing tournament, round, table or group.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

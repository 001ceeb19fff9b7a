package pipeline

import "errors"

// ErrInputMissing signals that a required input table is empty or absent.
// The run aborts without touching any downstream table.
var ErrInputMissing = errors.New("required input table is empty")

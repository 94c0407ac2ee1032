package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. It is a variable so
// tests can substitute a deterministic generator.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

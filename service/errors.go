package service

import (
	"errors"
	"fmt"
)

// Kind classifies a poll cycle failure
type Kind int

// Failure kinds, config and retrieval abort a cycle, delivery and persistence do not
const (
	KindConfig Kind = iota + 1
	KindRetrieval
	KindDelivery
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindRetrieval:
		return "retrieval"
	case KindDelivery:
		return "delivery"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error is a failure of one stage of a feed cycle
type Error struct {
	Kind Kind
	Feed string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Feed, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a cycle error of the kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

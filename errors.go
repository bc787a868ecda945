package lumen

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidChamberAccess marks an op or call naming a chamber slot that
	// is out of range or empty.
	ErrInvalidChamberAccess = errors.New("invalid chamber access")
	// ErrInvalidShade marks a duplicate per-frame unique op.
	ErrInvalidShade = errors.New("duplicated operation that must be unique")
	// ErrChamberCapacity is returned by AddChamber when every slot is taken.
	ErrChamberCapacity = errors.New("no free chamber slot")
)

// ErrorKind classifies recoverable op errors.
type ErrorKind uint8

const (
	KindOther ErrorKind = iota
	KindInvalidChamberAccess
	KindInvalidShade
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidChamberAccess:
		return "invalid-chamber-access"
	case KindInvalidShade:
		return "invalid-shade"
	}
	return "other"
}

// OpError is a recoverable failure of a single op. The op is dropped and
// the frame continues.
type OpError struct {
	Kind    ErrorKind
	Chamber ChamberIndex
	Detail  string
}

func invalidChamber(i ChamberIndex) *OpError {
	return &OpError{Kind: KindInvalidChamberAccess, Chamber: i}
}

func (e *OpError) Error() string {
	switch e.Kind {
	case KindInvalidChamberAccess:
		return fmt.Sprintf("invalid chamber access: %d", e.Chamber)
	case KindInvalidShade:
		return fmt.Sprintf("duplicated operation that must be unique: %s", e.Detail)
	}
	return e.Detail
}

func (e *OpError) Is(target error) bool {
	switch target {
	case ErrInvalidChamberAccess:
		return e.Kind == KindInvalidChamberAccess
	case ErrInvalidShade:
		return e.Kind == KindInvalidShade
	}
	return false
}

// FrameLog is one timestamped entry collected while rendering a frame.
type FrameLog struct {
	Timestamp time.Time
	Kind      ErrorKind
	Message   string
}

func newFrameLog(kind ErrorKind, msg string) FrameLog {
	return FrameLog{Timestamp: time.Now(), Kind: kind, Message: msg}
}

func frameLogFromErr(err error) FrameLog {
	kind := KindOther
	var opErr *OpError
	if errors.As(err, &opErr) {
		kind = opErr.Kind
	}
	return newFrameLog(kind, err.Error())
}

func (l FrameLog) String() string {
	return fmt.Sprintf("[%s] %s", l.Timestamp.Format(time.RFC3339Nano), l.Message)
}

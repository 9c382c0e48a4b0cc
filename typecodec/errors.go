package typecodec

import (
	"github.com/pkg/errors"

	"github.com/cube2222/typewire/wire"
)

var (
	ErrUnknownTypeTag        = errors.New("typecodec: unknown type tag")
	ErrUnexpectedEndOfData   = wire.ErrUnexpectedEndOfData
	ErrMaxDepthExceeded      = wire.ErrMaxDepthExceeded
	ErrInvalidEnumValueWidth = errors.New("typecodec: enum value doesn't fit its width")
	ErrInvalidIntervalKind   = errors.New("typecodec: invalid interval kind")
	ErrTrailingData          = errors.New("typecodec: trailing data after type")
	ErrIncompleteType        = errors.New("typecodec: type is missing a child")
)

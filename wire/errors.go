package wire

import "errors"

var ErrBufferUnderrun = errors.New("buffer underrun")
var ErrMalformed = errors.New("malformed message")
var ErrStateSize = errors.New("state is smaller than the registered entries")
var ErrStringTooLong = errors.New("string exceeds 65535 bytes")

package model

import "errors"

// ErrUnknownMember indicates a member id that is not present in the roster.
var ErrUnknownMember = errors.New("unknown member")

package tax

import "errors"

var (
	ErrBracketTableNotFound      = errors.New("no bracket table published for fiscal year")
	ErrBracketTableAlreadyExists = errors.New("bracket table already published for fiscal year")
	ErrInvalidBracketTable       = errors.New("invalid bracket table")
	ErrFloorAboveCeiling         = errors.New("contribution floor exceeds ceiling")
)

package service

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCommitConflict  = errors.New("commit aborted")
	ErrVersionConflict = errors.New("project was changed by another session")
)

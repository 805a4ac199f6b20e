package domain

import "errors"

var (
	ErrSendingReplyFailed   = errors.New("failed to send reply")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrAuthorizationDenied  = errors.New("authorization denied")
	ErrCommandFailed        = errors.New("command failed")
	ErrAggregationTransport = errors.New("failed to fetch page")
	ErrPersisterNotStarted  = errors.New("persister not started")
	ErrPersisterStarted     = errors.New("persister already started")
	ErrLimitExceeded        = errors.New("daily command limit exceeded")
)

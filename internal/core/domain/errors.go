package domain

import "errors"

var (
	// ErrPermissionDenied covers every capability check failure, including
	// last-admin protection and system-task deletion by a non-Super Admin.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidImpersonationTarget is returned when impersonation
	// preconditions are unmet: the anchor is not a Super Admin, the target is
	// the anchor itself, or the session is already impersonating.
	ErrInvalidImpersonationTarget = errors.New("invalid impersonation target")

	// ErrAssigneeRequired rejects task creation with no assignees.
	ErrAssigneeRequired = errors.New("task requires at least one assignee")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrThreadNotFound     = errors.New("thread not found")
	ErrSessionNotFound    = errors.New("session not found")

	// ErrDuplicateThread is returned when a DM pair already has a thread.
	ErrDuplicateThread = errors.New("direct thread already exists")
)

package domain

import "time"

// Session is the impersonation state machine for one authenticated login.
// It has two states: anchored (no overlay) and impersonating. The anchor is
// always the originally authenticated identity; every permission check reads
// the effective actor through ActorID so the current overlay applies.
type Session struct {
	AnchorID   string    `json:"anchor_id"`
	AnchorRole Role      `json:"anchor_role"`
	TargetID   string    `json:"target_id,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

// NewSession returns an anchored session for the given login.
func NewSession(anchor *User, now time.Time) *Session {
	return &Session{AnchorID: anchor.ID, AnchorRole: anchor.Role, StartedAt: now}
}

// IsImpersonating reports whether an overlay is active.
func (s *Session) IsImpersonating() bool {
	return s.TargetID != ""
}

// ActorID returns the effective actor: the impersonation target if set,
// otherwise the anchor.
func (s *Session) ActorID() string {
	if s.IsImpersonating() {
		return s.TargetID
	}
	return s.AnchorID
}

// StartImpersonation moves the session to the impersonating state. Legal only
// from the anchored state, with a Super Admin anchor and a target distinct
// from the anchor. Illegal calls leave the session unchanged.
func (s *Session) StartImpersonation(target *User) error {
	if s.IsImpersonating() || s.AnchorRole != RoleSuperAdmin || target.ID == s.AnchorID {
		return ErrInvalidImpersonationTarget
	}
	s.TargetID = target.ID
	return nil
}

// StopImpersonation returns the session to the anchored state. A no-op when
// already anchored.
func (s *Session) StopImpersonation() {
	s.TargetID = ""
}

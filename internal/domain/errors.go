package domain

import "errors"

// Sentinel errors for invitation operations.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrTokenCollision       = errors.New("invitation token already exists")
	ErrTokenGeneration      = errors.New("could not generate a unique invitation token")
	ErrInternalConsistency  = errors.New("issued certificate count exceeds invitation quantity")
	ErrInvitationExpired    = errors.New("invitation already expired")
	ErrInvitationRedeemed   = errors.New("invitation already redeemed")
	ErrActivationsExhausted = errors.New("no activations remaining on invitation")
	ErrDuplicateCertificate = errors.New("certificate serial already recorded")
)

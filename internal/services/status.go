package services

import (
	"fmt"
	"time"

	"certinvite/internal/domain"
)

// DeriveStatus computes the lifecycle status and remaining activations of a
// found invitation. It is a pure function of its inputs.
//
// An invitation with activationsTotal == 0 is unlimited: it is never Redeemed
// and always reports zero remaining activations. An over-issued invitation
// (issued > total, total > 0) is reported Redeemed; callers detect it with
// CheckIssuedCount.
func DeriveStatus(now, expiry time.Time, activationsTotal, issued int) (domain.InvitationStatus, int) {
	expired := now.After(expiry)
	unlimited := activationsTotal == 0

	switch {
	case issued == 0:
		if expired {
			return domain.InvitationExpired, 0
		}
		return domain.InvitationValid, activationsTotal
	case !unlimited && issued >= activationsTotal:
		return domain.InvitationRedeemed, 0
	case expired:
		return domain.InvitationExpired, 0
	case unlimited:
		return domain.InvitationPartiallyRedeemed, 0
	default:
		return domain.InvitationPartiallyRedeemed, activationsTotal - issued
	}
}

// CheckIssuedCount returns an error wrapping domain.ErrInternalConsistency when
// more certificates were issued than a finite quantity allows.
func CheckIssuedCount(activationsTotal, issued int) error {
	if issued < 0 {
		return fmt.Errorf("%w: negative issued count %d", domain.ErrInternalConsistency, issued)
	}
	if activationsTotal > 0 && issued > activationsTotal {
		return fmt.Errorf("%w: %d issued, %d allowed", domain.ErrInternalConsistency, issued, activationsTotal)
	}
	return nil
}

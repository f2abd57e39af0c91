package holding

const (
	StatusActive           = "ACTIVE"
	StatusExpiresSoon      = "EXPIRES_SOON"
	StatusExpired          = "EXPIRED"
	StatusRenewalRequested = "RENEWAL_REQUESTED"
	StatusInitiated        = "INITIATED"
	StatusPostponed        = "POSTPONED"
)

// ExpiresSoonWindowDays is how far ahead of the expiry date a holding is
// flagged EXPIRES_SOON by the status recompute.
const ExpiresSoonWindowDays = 90

type Action string

const (
	ActionRequestRenewal  Action = "REQUEST_RENEWAL"
	ActionInitiateRenewal Action = "INITIATE_RENEWAL"
	ActionConfirmRenewal  Action = "CONFIRM_RENEWAL"
	ActionPostponeRenewal Action = "POSTPONE_RENEWAL"
)

// allowedTransitions is the single source of truth for the renewal workflow.
// Every status change except the time-based recompute must pass through it.
var allowedTransitions = map[Action]map[string]bool{
	ActionRequestRenewal: {
		StatusActive:      true,
		StatusExpiresSoon: true,
		StatusExpired:     true,
		StatusPostponed:   true,
	},
	ActionInitiateRenewal: {
		StatusRenewalRequested: true,
		StatusExpiresSoon:      true,
		StatusExpired:          true,
	},
	ActionConfirmRenewal: {
		StatusInitiated: true,
	},
	ActionPostponeRenewal: {
		StatusInitiated: true,
	},
}

func CanTransition(current string, action Action) bool {
	allowed, ok := allowedTransitions[action]
	if !ok {
		return false
	}
	return allowed[current]
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusExpiresSoon, StatusExpired,
		StatusRenewalRequested, StatusInitiated, StatusPostponed:
		return true
	default:
		return false
	}
}

package models

// Trigger identifies the event driving a withdraw request transition
type Trigger string

const (
	TriggerClaim         Trigger = "claim"
	TriggerSendSucceeded Trigger = "send_succeeded"
	TriggerSendFailed    Trigger = "send_failed"
	TriggerOfferAccepted Trigger = "offer_accepted"
	TriggerOfferDeclined Trigger = "offer_declined"
	TriggerOfferFailed   Trigger = "offer_failed"
	TriggerCancel        Trigger = "cancel"
)

// NextState computes the next request status together with the inventory item
// status it implies. Request and item status are always decided as a pair so no
// call site can update one without the other.
//
// Returns ok=false when the trigger is not valid from the current status.
// Callers treat that as a no-op rather than an error: a duplicated or
// out-of-order external event simply has no effect. No trigger ever moves a
// request out of a terminal status.
//
// attempts is the value after the current claim; a send failure retries until
// it reaches maxAttempts.
func NextState(current WithdrawStatus, trigger Trigger, attempts, maxAttempts int) (WithdrawStatus, ItemStatus, bool) {
	if IsTerminalStatus(current) {
		return current, "", false
	}

	switch trigger {
	case TriggerClaim:
		if current != WithdrawStatusPending {
			return current, "", false
		}
		return WithdrawStatusProcessing, ItemStatusPendingWithdrawal, true

	case TriggerSendSucceeded:
		if current != WithdrawStatusProcessing {
			return current, "", false
		}
		return WithdrawStatusSent, ItemStatusPendingWithdrawal, true

	case TriggerSendFailed:
		if current != WithdrawStatusProcessing {
			return current, "", false
		}
		if attempts < maxAttempts {
			return WithdrawStatusPending, ItemStatusPendingWithdrawal, true
		}
		return WithdrawStatusFailed, ItemStatusAvailable, true

	case TriggerOfferAccepted:
		if current != WithdrawStatusSent {
			return current, "", false
		}
		return WithdrawStatusAccepted, ItemStatusWithdrawn, true

	case TriggerOfferDeclined:
		if current != WithdrawStatusSent {
			return current, "", false
		}
		return WithdrawStatusDeclined, ItemStatusAvailable, true

	case TriggerOfferFailed:
		if current != WithdrawStatusSent {
			return current, "", false
		}
		return WithdrawStatusFailed, ItemStatusAvailable, true

	case TriggerCancel:
		if current != WithdrawStatusPending && current != WithdrawStatusProcessing {
			return current, "", false
		}
		return WithdrawStatusCancelled, ItemStatusAvailable, true
	}

	return current, "", false
}

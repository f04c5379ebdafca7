package steam

// OfferState is the trade offer state reported by the platform
type OfferState int

const (
	OfferStateInvalid                OfferState = 1
	OfferStateActive                 OfferState = 2
	OfferStateAccepted               OfferState = 3
	OfferStateCountered              OfferState = 4
	OfferStateExpired                OfferState = 5
	OfferStateCanceled               OfferState = 6
	OfferStateDeclined               OfferState = 7
	OfferStateInvalidItems           OfferState = 8
	OfferStateConfirmationNeeded     OfferState = 9
	OfferStateCanceledBySecondFactor OfferState = 10
	OfferStateInEscrow               OfferState = 11
)

var offerStateNames = map[OfferState]string{
	OfferStateInvalid:                "Invalid",
	OfferStateActive:                 "Active",
	OfferStateAccepted:               "Accepted",
	OfferStateCountered:              "Countered",
	OfferStateExpired:                "Expired",
	OfferStateCanceled:               "Canceled",
	OfferStateDeclined:               "Declined",
	OfferStateInvalidItems:           "InvalidItems",
	OfferStateConfirmationNeeded:     "ConfirmationNeeded",
	OfferStateCanceledBySecondFactor: "CanceledBySecondFactor",
	OfferStateInEscrow:               "InEscrow",
}

func (s OfferState) String() string {
	if name, ok := offerStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsFinal reports whether the offer can no longer change state
func (s OfferState) IsFinal() bool {
	switch s {
	case OfferStateAccepted, OfferStateExpired, OfferStateCanceled, OfferStateDeclined, OfferStateInvalidItems:
		return true
	}
	return false
}

package transaction

// Status is the administrative state of the transaction itself. Inactive
// transactions never hold booths, whatever their payment state says.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentAbandoned PaymentStatus = "abandoned"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentAbandoned:
		return true
	default:
		return false
	}
}

// paymentTransitions is the single source of truth for the payment state
// machine. Validity and transaction status changes hang off these
// transitions instead of being mutated independently.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid, PaymentFailed, PaymentAbandoned},
	PaymentPaid:      {PaymentRefunded},
	PaymentFailed:    {PaymentPending},
	PaymentRefunded:  {},
	PaymentAbandoned: {},
}

func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ValidityStatus string

const (
	ValidityActive  ValidityStatus = "active"
	ValidityExpired ValidityStatus = "expired"
	ValidityPaid    ValidityStatus = "paid"
)

func (v ValidityStatus) String() string {
	return string(v)
}

func (v ValidityStatus) IsValid() bool {
	switch v {
	case ValidityActive, ValidityExpired, ValidityPaid:
		return true
	default:
		return false
	}
}

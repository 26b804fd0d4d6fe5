package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"expo-booth-service/internal/domain/booth"

	"github.com/google/uuid"
)

var (
	ErrNoLineItems        = errors.New("transaction requires at least one line item")
	ErrDuplicateLineItem  = errors.New("same booth listed twice in one transaction")
	ErrInvalidPrice       = errors.New("line item price must be positive")
	ErrBlankBoothType     = errors.New("line item booth type cannot be blank")
	ErrInvalidValidity    = errors.New("validity period must be positive")
	ErrTransactionPaid    = errors.New("paid transaction cannot be cancelled")
	ErrAlreadyExpired     = errors.New("transaction already expired")
	ErrInvalidTransition  = errors.New("illegal payment status transition")
	ErrUnknownPaymentKind = errors.New("unknown payment status")
)

// TransitionError reports the exact illegal edge so callers can surface the
// current and requested states.
type TransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal payment status transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LineItemSpec is the raw input for one booth in a reservation request.
type LineItemSpec struct {
	Sector     string
	BoothNum   string
	PriceCents int64
	BoothType  string
}

// LineItem is one claimed booth inside a transaction. It belongs to exactly
// one transaction for its whole life.
type LineItem struct {
	id         uuid.UUID
	key        booth.Key
	priceCents int64
	boothType  string
}

func newLineItem(spec LineItemSpec) (LineItem, error) {
	key, err := booth.NewKey(spec.Sector, spec.BoothNum)
	if err != nil {
		return LineItem{}, err
	}
	if spec.PriceCents <= 0 {
		return LineItem{}, ErrInvalidPrice
	}
	if strings.TrimSpace(spec.BoothType) == "" {
		return LineItem{}, ErrBlankBoothType
	}
	return LineItem{
		id:         uuid.New(),
		key:        key,
		priceCents: spec.PriceCents,
		boothType:  strings.TrimSpace(spec.BoothType),
	}, nil
}

func ReconstructLineItem(id uuid.UUID, key booth.Key, priceCents int64, boothType string) LineItem {
	return LineItem{
		id:         id,
		key:        key,
		priceCents: priceCents,
		boothType:  boothType,
	}
}

func (li LineItem) ID() uuid.UUID     { return li.id }
func (li LineItem) Key() booth.Key    { return li.key }
func (li LineItem) Sector() string    { return li.key.Sector }
func (li LineItem) BoothNum() string  { return li.key.Number }
func (li LineItem) PriceCents() int64 { return li.priceCents }
func (li LineItem) BoothType() string { return li.boothType }

// BoothTransaction groups booths reserved together with one validity window
// and one payment lifecycle.
type BoothTransaction struct {
	id           uuid.UUID
	items        []LineItem
	remark       *string
	status       Status
	payment      PaymentStatus
	validity     ValidityStatus
	validityDays int
	reservedAt   time.Time
	expiresAt    time.Time
	createdBy    uuid.UUID
	updatedBy    uuid.UUID
	createdAt    time.Time
	updatedAt    time.Time
}

func NewBoothTransaction(
	specs []LineItemSpec,
	validityDays int,
	remark *string,
	createdBy uuid.UUID,
	now time.Time,
) (*BoothTransaction, error) {
	if len(specs) == 0 {
		return nil, ErrNoLineItems
	}
	if validityDays <= 0 {
		return nil, ErrInvalidValidity
	}

	items := make([]LineItem, 0, len(specs))
	seen := make(map[booth.Key]struct{}, len(specs))
	for _, spec := range specs {
		item, err := newLineItem(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[item.Key()]; dup {
			return nil, ErrDuplicateLineItem
		}
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}

	if remark != nil {
		trimmed := strings.TrimSpace(*remark)
		if trimmed == "" {
			remark = nil
		} else {
			remark = &trimmed
		}
	}

	return &BoothTransaction{
		id:           uuid.New(),
		items:        items,
		remark:       remark,
		status:       StatusActive,
		payment:      PaymentPending,
		validity:     ValidityActive,
		validityDays: validityDays,
		reservedAt:   now,
		expiresAt:    now.AddDate(0, 0, validityDays),
		createdBy:    createdBy,
		updatedBy:    createdBy,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructBoothTransaction(
	id uuid.UUID,
	items []LineItem,
	remark *string,
	status Status,
	payment PaymentStatus,
	validity ValidityStatus,
	validityDays int,
	reservedAt, expiresAt time.Time,
	createdBy, updatedBy uuid.UUID,
	createdAt, updatedAt time.Time,
) *BoothTransaction {
	return &BoothTransaction{
		id:           id,
		items:        items,
		remark:       remark,
		status:       status,
		payment:      payment,
		validity:     validity,
		validityDays: validityDays,
		reservedAt:   reservedAt,
		expiresAt:    expiresAt,
		createdBy:    createdBy,
		updatedBy:    updatedBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (t *BoothTransaction) ID() uuid.UUID            { return t.id }
func (t *BoothTransaction) Items() []LineItem        { return t.items }
func (t *BoothTransaction) Remark() *string          { return t.remark }
func (t *BoothTransaction) Status() Status           { return t.status }
func (t *BoothTransaction) Payment() PaymentStatus   { return t.payment }
func (t *BoothTransaction) Validity() ValidityStatus { return t.validity }
func (t *BoothTransaction) ValidityDays() int        { return t.validityDays }
func (t *BoothTransaction) ReservedAt() time.Time    { return t.reservedAt }
func (t *BoothTransaction) ExpiresAt() time.Time     { return t.expiresAt }
func (t *BoothTransaction) CreatedBy() uuid.UUID     { return t.createdBy }
func (t *BoothTransaction) UpdatedBy() uuid.UUID     { return t.updatedBy }
func (t *BoothTransaction) CreatedAt() time.Time     { return t.createdAt }
func (t *BoothTransaction) UpdatedAt() time.Time     { return t.updatedAt }

// TotalCents is always derived from the line items, never stored
// independently.
func (t *BoothTransaction) TotalCents() int64 {
	var total int64
	for _, item := range t.items {
		total += item.priceCents
	}
	return total
}

func (t *BoothTransaction) Keys() []booth.Key {
	keys := make([]booth.Key, len(t.items))
	for i, item := range t.items {
		keys[i] = item.Key()
	}
	return keys
}

// HasExpired reports whether the unpaid validity window has lapsed, whether
// or not the sweeper has persisted that fact yet.
func (t *BoothTransaction) HasExpired(now time.Time) bool {
	return t.validity == ValidityActive &&
		t.payment == PaymentPending &&
		!t.expiresAt.After(now)
}

// HoldsBooths reports whether the transaction currently excludes others from
// its booths.
func (t *BoothTransaction) HoldsBooths(now time.Time) bool {
	if t.status != StatusActive {
		return false
	}
	switch t.validity {
	case ValidityPaid:
		return true
	case ValidityActive:
		return t.expiresAt.After(now)
	default:
		return false
	}
}

// Cancel releases the booths. Paid transactions must go through the refund
// path instead.
func (t *BoothTransaction) Cancel(by uuid.UUID, now time.Time) error {
	if t.payment == PaymentPaid {
		return ErrTransactionPaid
	}
	if t.validity == ValidityExpired || t.HasExpired(now) {
		return ErrAlreadyExpired
	}
	t.validity = ValidityExpired
	t.status = StatusInactive
	t.touch(by, now)
	return nil
}

// ApplyPayment drives the payment state machine. On an illegal edge the
// transaction is left untouched and a TransitionError is returned.
func (t *BoothTransaction) ApplyPayment(next PaymentStatus, by uuid.UUID, now time.Time) error {
	if !next.IsValid() {
		return ErrUnknownPaymentKind
	}
	if !t.payment.CanTransitionTo(next) {
		return &TransitionError{From: t.payment, To: next}
	}

	prev := t.payment
	t.payment = next

	switch {
	case prev == PaymentPending && next == PaymentPaid:
		// Payment freezes the validity window; expiry no longer applies.
		t.validity = ValidityPaid
	case prev == PaymentPending && next == PaymentAbandoned:
		t.validity = ValidityExpired
		t.status = StatusInactive
	case prev == PaymentPaid && next == PaymentRefunded:
		t.status = StatusInactive
	}

	t.touch(by, now)
	return nil
}

func (t *BoothTransaction) touch(by uuid.UUID, now time.Time) {
	t.updatedBy = by
	t.updatedAt = now
}

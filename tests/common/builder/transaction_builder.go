//go:build unit || e2e

package builder

import (
	"time"

	"expo-booth-service/internal/domain/transaction"
	reqdto "expo-booth-service/internal/handler/dto/request"
	"expo-booth-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type TransactionBuilder struct {
	UserID       uuid.UUID
	Items        []transaction.LineItemSpec
	ValidityDays int
	Remark       *string
	Now          time.Time
}

func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		UserID: uuid.New(),
		Items: []transaction.LineItemSpec{
			{Sector: "A", BoothNum: "A-101", PriceCents: 250_000, BoothType: "standard"},
		},
		ValidityDays: 14,
		Now:          time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *TransactionBuilder) BuildDomain() (*transaction.BoothTransaction, error) {
	return transaction.NewBoothTransaction(b.Items, b.ValidityDays, b.Remark, b.UserID, b.Now)
}

func (b *TransactionBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	items := make([]reqdto.LineItemRequest, len(b.Items))
	for i, spec := range b.Items {
		items[i] = reqdto.LineItemRequest{
			Sector:     spec.Sector,
			BoothNum:   spec.BoothNum,
			PriceCents: spec.PriceCents,
			BoothType:  spec.BoothType,
		}
	}
	days := b.ValidityDays
	return reqdto.CreateReservationRequest{
		Items:        items,
		ValidityDays: &days,
		Remark:       b.Remark,
	}
}

func (b *TransactionBuilder) BuildView() *queries.TransactionView {
	id := uuid.New()
	items := make([]queries.LineItemView, len(b.Items))
	var total int64
	for i, spec := range b.Items {
		items[i] = queries.LineItemView{
			ID:         uuid.New(),
			Sector:     spec.Sector,
			BoothNum:   spec.BoothNum,
			PriceCents: spec.PriceCents,
			BoothType:  spec.BoothType,
		}
		total += spec.PriceCents
	}
	return &queries.TransactionView{
		ID:             id,
		Items:          items,
		TotalCents:     total,
		Remark:         b.Remark,
		Status:         transaction.StatusActive.String(),
		PaymentStatus:  transaction.PaymentPending.String(),
		ValidityStatus: transaction.ValidityActive.String(),
		ValidityDays:   b.ValidityDays,
		ReservedAt:     b.Now,
		ExpiresAt:      b.Now.AddDate(0, 0, b.ValidityDays),
		CreatedBy:      b.UserID,
		UpdatedBy:      b.UserID,
		CreatedAt:      b.Now,
		UpdatedAt:      b.Now,
	}
}

func (b *TransactionBuilder) BuildListItem() *queries.TransactionListItem {
	var total int64
	for _, spec := range b.Items {
		total += spec.PriceCents
	}
	return &queries.TransactionListItem{
		ID:             uuid.New(),
		BoothCount:     len(b.Items),
		TotalCents:     total,
		Status:         transaction.StatusActive.String(),
		PaymentStatus:  transaction.PaymentPending.String(),
		ValidityStatus: transaction.ValidityActive.String(),
		ReservedAt:     b.Now,
		ExpiresAt:      b.Now.AddDate(0, 0, b.ValidityDays),
	}
}

// Fluent builder methods
func (b *TransactionBuilder) WithUserID(userID uuid.UUID) *TransactionBuilder {
	b.UserID = userID
	return b
}

func (b *TransactionBuilder) WithItems(items ...transaction.LineItemSpec) *TransactionBuilder {
	b.Items = items
	return b
}

func (b *TransactionBuilder) WithValidityDays(days int) *TransactionBuilder {
	b.ValidityDays = days
	return b
}

func (b *TransactionBuilder) WithRemark(remark string) *TransactionBuilder {
	b.Remark = &remark
	return b
}

func (b *TransactionBuilder) WithNow(now time.Time) *TransactionBuilder {
	b.Now = now
	return b
}

func (b *TransactionBuilder) AsMultiBooth() *TransactionBuilder {
	b.Items = []transaction.LineItemSpec{
		{Sector: "A", BoothNum: "A-101", PriceCents: 250_000, BoothType: "standard"},
		{Sector: "A", BoothNum: "A-102", PriceCents: 250_000, BoothType: "standard"},
		{Sector: "B", BoothNum: "B-201", PriceCents: 480_000, BoothType: "corner"},
	}
	return b
}

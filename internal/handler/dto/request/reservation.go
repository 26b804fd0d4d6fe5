package request

import (
	"expo-booth-service/internal/usecase/commands"
	"expo-booth-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type LineItemRequest struct {
	Sector     string `json:"sector" binding:"required"`
	BoothNum   string `json:"booth_num" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
	BoothType  string `json:"booth_type" binding:"required"`
}

type CreateReservationRequest struct {
	Items        []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	ValidityDays *int              `json:"validity_days,omitempty" binding:"omitempty,gt=0"`
	Remark       *string           `json:"remark,omitempty"`
}

func (r CreateReservationRequest) ToInput() commands.CreateReservationInput {
	items := make([]commands.LineItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = commands.LineItemInput{
			Sector:     item.Sector,
			BoothNum:   item.BoothNum,
			PriceCents: item.PriceCents,
			BoothType:  item.BoothType,
		}
	}
	return commands.CreateReservationInput{
		Items:        items,
		ValidityDays: r.ValidityDays,
		Remark:       r.Remark,
	}
}

type BoothRefRequest struct {
	Sector     string `json:"sector" binding:"required"`
	BoothNum   string `json:"booth_num" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
	BoothType  string `json:"booth_type" binding:"required"`
}

type CheckAvailabilityRequest struct {
	Booths []BoothRefRequest `json:"booths" binding:"required,min=1,dive"`
}

func (r CheckAvailabilityRequest) ToRefs() []queries.BoothRef {
	refs := make([]queries.BoothRef, len(r.Booths))
	for i, b := range r.Booths {
		refs[i] = queries.BoothRef{
			Sector:     b.Sector,
			BoothNum:   b.BoothNum,
			PriceCents: b.PriceCents,
			BoothType:  b.BoothType,
		}
	}
	return refs
}

type UpdatePaymentStatusRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
	PaymentStatus string    `json:"payment_status" binding:"required,oneof=pending paid failed refunded abandoned"`
}

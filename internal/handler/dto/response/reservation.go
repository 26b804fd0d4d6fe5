package response

import (
	"time"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID             uuid.UUID          `json:"id"`
	Items          []LineItemResponse `json:"items"`
	TotalCents     int64              `json:"totalCents"`
	Remark         *string            `json:"remark,omitempty"`
	Status         string             `json:"status"`
	PaymentStatus  string             `json:"paymentStatus"`
	ValidityStatus string             `json:"validityStatus"`
	ValidityDays   int                `json:"validityDays"`
	ReservedAt     time.Time          `json:"reservedAt"`
	ExpiresAt      time.Time          `json:"expiresAt"`
	CreatedBy      uuid.UUID          `json:"createdBy"`
	UpdatedBy      uuid.UUID          `json:"updatedBy"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type LineItemResponse struct {
	ID         uuid.UUID `json:"id"`
	Sector     string    `json:"sector"`
	BoothNum   string    `json:"boothNum"`
	PriceCents int64     `json:"priceCents"`
	BoothType  string    `json:"boothType"`
}

type ReservationListResponse struct {
	ID             uuid.UUID `json:"id"`
	BoothCount     int       `json:"boothCount"`
	TotalCents     int64     `json:"totalCents"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"paymentStatus"`
	ValidityStatus string    `json:"validityStatus"`
	ReservedAt     time.Time `json:"reservedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

type BoothKeyResponse struct {
	Sector   string `json:"sector"`
	BoothNum string `json:"boothNum"`
}

type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []BoothKeyResponse `json:"conflicts"`
}

func FromTransactionView(view *queries.TransactionView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromTransactionListItem(item *queries.TransactionListItem) *ReservationListResponse {
	var resp ReservationListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromAvailabilityView(view *queries.AvailabilityView) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		Available: view.Available,
		Conflicts: FromBoothKeys(view.Conflicts),
	}
	return resp
}

func FromBoothKeys(keys []booth.Key) []BoothKeyResponse {
	out := make([]BoothKeyResponse, len(keys))
	for i, k := range keys {
		out[i] = BoothKeyResponse{Sector: k.Sector, BoothNum: k.Number}
	}
	return out
}

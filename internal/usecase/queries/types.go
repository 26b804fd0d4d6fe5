package queries

import (
	"time"

	"expo-booth-service/internal/domain/booth"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type TransactionView struct {
	ID             uuid.UUID      `json:"id"`
	Items          []LineItemView `json:"items"`
	TotalCents     int64          `json:"total_cents"`
	Remark         *string        `json:"remark,omitempty"`
	Status         string         `json:"status"`
	PaymentStatus  string         `json:"payment_status"`
	ValidityStatus string         `json:"validity_status"`
	ValidityDays   int            `json:"validity_days"`
	ReservedAt     time.Time      `json:"reserved_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
	CreatedBy      uuid.UUID      `json:"created_by"`
	UpdatedBy      uuid.UUID      `json:"updated_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type LineItemView struct {
	ID         uuid.UUID `json:"id"`
	Sector     string    `json:"sector"`
	BoothNum   string    `json:"booth_num"`
	PriceCents int64     `json:"price_cents"`
	BoothType  string    `json:"booth_type"`
}

type TransactionListItem struct {
	ID             uuid.UUID `json:"id"`
	BoothCount     int       `json:"booth_count"`
	TotalCents     int64     `json:"total_cents"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	ValidityStatus string    `json:"validity_status"`
	ReservedAt     time.Time `json:"reserved_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type AvailabilityView struct {
	Available bool        `json:"available"`
	Conflicts []booth.Key `json:"conflicts"`
}

type BoothView struct {
	Sector     string    `json:"sector"`
	BoothNum   string    `json:"booth_num"`
	PriceCents int64     `json:"price_cents"`
	BoothType  string    `json:"booth_type"`
	Status     string    `json:"status"`
	Claimed    bool      `json:"claimed"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SectorStats struct {
	Sector    string `json:"sector"`
	Total     int64  `json:"total"`
	Reserved  int64  `json:"reserved"`
	Available int64  `json:"available"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type StatisticsView struct {
	Sectors    []SectorStats `json:"sectors"`
	ByPayment  []StatusCount `json:"by_payment_status"`
	ByValidity []StatusCount `json:"by_validity_status"`
}

package booth

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrBlankSector   = errors.New("sector cannot be blank")
	ErrBlankNumber   = errors.New("booth number cannot be blank")
	ErrInvalidPrice  = errors.New("booth price must be positive")
	ErrBlankType     = errors.New("booth type cannot be blank")
	ErrInvalidStatus = errors.New("invalid booth status")
)

// Key identifies a physical booth on the fairgrounds.
type Key struct {
	Sector string `json:"sector"`
	Number string `json:"boothNum"`
}

func NewKey(sector, number string) (Key, error) {
	sector = strings.TrimSpace(sector)
	number = strings.TrimSpace(number)
	if sector == "" {
		return Key{}, ErrBlankSector
	}
	if number == "" {
		return Key{}, ErrBlankNumber
	}
	return Key{Sector: sector, Number: number}, nil
}

func (k Key) String() string {
	return k.Sector + "-" + k.Number
}

type Booth struct {
	key        Key
	priceCents int64
	boothType  string
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

func NewBooth(key Key, priceCents int64, boothType string, status Status, now time.Time) (*Booth, error) {
	if priceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if strings.TrimSpace(boothType) == "" {
		return nil, ErrBlankType
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Booth{
		key:        key,
		priceCents: priceCents,
		boothType:  strings.TrimSpace(boothType),
		status:     status,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructBooth(key Key, priceCents int64, boothType string, status Status, createdAt, updatedAt time.Time) *Booth {
	return &Booth{
		key:        key,
		priceCents: priceCents,
		boothType:  boothType,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (b *Booth) Key() Key             { return b.key }
func (b *Booth) Sector() string       { return b.key.Sector }
func (b *Booth) Number() string       { return b.key.Number }
func (b *Booth) PriceCents() int64    { return b.priceCents }
func (b *Booth) BoothType() string    { return b.boothType }
func (b *Booth) Status() Status       { return b.status }
func (b *Booth) CreatedAt() time.Time { return b.createdAt }
func (b *Booth) UpdatedAt() time.Time { return b.updatedAt }

func (b *Booth) IsActive() bool {
	return b.status == StatusActive
}

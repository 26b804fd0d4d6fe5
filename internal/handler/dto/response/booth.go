package response

import (
	"time"

	"expo-booth-service/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type BoothResponse struct {
	Sector     string    `json:"sector"`
	BoothNum   string    `json:"boothNum"`
	PriceCents int64     `json:"priceCents"`
	BoothType  string    `json:"boothType"`
	Status     string    `json:"status"`
	Claimed    bool      `json:"claimed"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type SectorStatsResponse struct {
	Sector    string `json:"sector"`
	Total     int64  `json:"total"`
	Reserved  int64  `json:"reserved"`
	Available int64  `json:"available"`
}

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type StatisticsResponse struct {
	Sectors    []SectorStatsResponse `json:"sectors"`
	ByPayment  []StatusCountResponse `json:"byPaymentStatus"`
	ByValidity []StatusCountResponse `json:"byValidityStatus"`
}

func FromBoothView(view *queries.BoothView) *BoothResponse {
	var resp BoothResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromStatisticsView(view *queries.StatisticsView) *StatisticsResponse {
	var resp StatisticsResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

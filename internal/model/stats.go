package model

import "github.com/shopspring/decimal"

type PlatformStats struct {
	Users            int64                   `json:"users"`
	ActiveProperties int64                   `json:"active_properties"`
	BookingsByStatus map[BookingStatus]int64 `json:"bookings_by_status"`
	BookingRevenue   decimal.Decimal         `json:"booking_revenue"`
	TotalInvested    decimal.Decimal         `json:"total_invested"`
	TokensSold       int64                   `json:"tokens_sold"`
	PublishedPosts   int64                   `json:"published_posts"`
}

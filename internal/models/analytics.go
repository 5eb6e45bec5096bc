package models

import "time"

// RevenuePoint is one calendar-day revenue bucket.
type RevenuePoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// AnalyticsSummary is a read-time projection over the current ground truth.
// Nothing here is persisted; it is recomputed on every read.
type AnalyticsSummary struct {
	TotalRooms       int            `json:"total_rooms"`
	AvailableRooms   int            `json:"available_rooms"`
	OccupiedRooms    int            `json:"occupied_rooms"`
	MaintenanceRooms int            `json:"maintenance_rooms"`
	OccupancyRate    float64        `json:"occupancy_rate"`
	TotalGuests      int            `json:"total_guests"`
	CurrentGuests    int            `json:"current_guests"`
	FrequentGuests   int            `json:"frequent_guests"`
	TotalRevenue     float64        `json:"total_revenue"`
	PendingPayments  float64        `json:"pending_payments"`
	MonthlyRevenue   float64        `json:"monthly_revenue"`
	TotalExpenses    float64        `json:"total_expenses"`
	NetIncome        float64        `json:"net_income"`
	DailyRevenue     []RevenuePoint `json:"daily_revenue"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

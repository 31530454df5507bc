package model

import "time"

// SummaryStats holds the dashboard figures across all records.
type SummaryStats struct {
	TotalClients   int
	TotalEquipment int
	TotalBudgets   int

	InAnalysis int
	Approved   int
	Rejected   int

	ApprovedRevenue float64 // sum of FinalTotal over approved budgets
	PipelineValue   float64 // sum of FinalTotal over budgets still in analysis
	ApprovalRate    float64 // approved / decided, 0-1
}

// ClientStats holds per-client budget figures.
type ClientStats struct {
	ClientID        string
	Name            string
	Equipment       int
	Budgets         int
	Approved        int
	ApprovedRevenue float64
}

// MonthStats holds the budgets issued in one calendar month.
type MonthStats struct {
	Month           time.Time // first day of the month, local time
	Issued          int
	Approved        int
	IssuedValue     float64
	ApprovedRevenue float64
}

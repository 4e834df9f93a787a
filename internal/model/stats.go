package model

// DashboardStats aggregates the figures shown on the admin dashboard.
type DashboardStats struct {
	TotalMembers       int                `json:"total_members"`
	TotalPoints        int                `json:"total_points"`
	TotalTransactions  int                `json:"total_transactions"`
	TotalQRCodes       int                `json:"total_qr_codes"`
	UsedQRCodes        int                `json:"used_qr_codes"`
	RecentTransactions []PointTransaction `json:"recent_transactions"`
}

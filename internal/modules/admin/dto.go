package admin

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type BlockIPRequest struct {
	IP string `json:"ip" binding:"required,ip"`
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	Clients         int64 `json:"clients"`
	Admins          int64 `json:"admins"`
	Projects        int64 `json:"projects"`
	PendingInvoices int64 `json:"pending_invoices"`
	OverdueInvoices int64 `json:"overdue_invoices"`
	PaidInvoices    int64 `json:"paid_invoices"`
	RevenueMinor    int64 `json:"revenue_minor"`
	OnlineUsers     int   `json:"online_users"`
	BlockedIPs      int   `json:"blocked_ips"`
	QueuedEmails    int   `json:"queued_emails"`
}

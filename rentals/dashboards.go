package rentals

// TenantOverview is the summary block of the tenant dashboard endpoint
type TenantOverview struct {
	Balance     Money  `json:"balance"`
	RentDue     Money  `json:"rent_due"`
	NextDueDate Date   `json:"next_due_date"`
	RoomNumber  string `json:"room_number,omitempty"`
}

// TenantDashboard combines the tenant's records. Pointer fields are nil when
// the API has no such record for the tenant.
type TenantDashboard struct {
	Overview    TenantOverview
	Lease       *Lease
	Payments    []RentPayment
	Deposit     *DepositRecord
	WaterBills  []WaterBill
	Maintenance []MaintenanceRequest
	Vacate      *VacateNotice
}

// Empty reports whether the tenant has nothing on record yet
func (d *TenantDashboard) Empty() bool {
	return d.Lease == nil && len(d.Payments) == 0 && d.Deposit == nil &&
		len(d.WaterBills) == 0 && len(d.Maintenance) == 0 && d.Vacate == nil
}

type CaretakerStats struct {
	TotalRooms      int `json:"total_rooms" validate:"gte=0"`
	OccupiedRooms   int `json:"occupied_rooms" validate:"gte=0"`
	AvailableRooms  int `json:"available_rooms" validate:"gte=0"`
	OpenMaintenance int `json:"open_maintenance" validate:"gte=0"`
}

type CaretakerDashboard struct {
	Stats             CaretakerStats       `json:"stats"`
	RecentMaintenance []MaintenanceRequest `json:"recent_maintenance" validate:"dive"`
}

type AdminStats struct {
	TotalTenants       int   `json:"total_tenants" validate:"gte=0"`
	ActiveLeases       int   `json:"active_leases" validate:"gte=0"`
	PendingVacates     int   `json:"pending_vacates" validate:"gte=0"`
	MonthlyRevenue     Money `json:"monthly_revenue"`
	OutstandingBalance Money `json:"outstanding_balance"`
}

type AdminDashboard struct {
	Stats          AdminStats     `json:"stats"`
	RecentPayments []RentPayment  `json:"recent_payments" validate:"dive"`
	PendingVacates []VacateNotice `json:"pending_vacates" validate:"dive"`
}

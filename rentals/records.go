package rentals

import "github.com/jrsteele09/go-rental-portal/users"

type LeaseStatus string

const (
	LeasePending    LeaseStatus = "pending"
	LeaseActive     LeaseStatus = "active"
	LeaseExpired    LeaseStatus = "expired"
	LeaseTerminated LeaseStatus = "terminated"
)

// Lease is the tenancy agreement for one room
type Lease struct {
	ID            users.ID    `json:"id" validate:"required"`
	TenantID      users.ID    `json:"tenant_id,omitempty"`
	RoomNumber    string      `json:"room_number"`
	MonthlyRent   Money       `json:"monthly_rent" validate:"gte=0"`
	DepositAmount Money       `json:"deposit_amount" validate:"gte=0"`
	StartDate     Date        `json:"start_date"`
	EndDate       Date        `json:"end_date"`
	Status        LeaseStatus `json:"status" validate:"required"`
	Terms         string      `json:"terms,omitempty"`
	SignedAt      Date        `json:"signed_at"`
	SignatureName string      `json:"signature_name,omitempty"`
}

// Signed reports whether the tenant has accepted the lease
func (l *Lease) Signed() bool {
	return l != nil && !l.SignedAt.IsZero()
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether the payment will not change status again
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	default:
		return false
	}
}

type RentPayment struct {
	ID         users.ID      `json:"id" validate:"required"`
	TenantName string        `json:"tenant_name,omitempty"`
	RoomNumber string        `json:"room_number,omitempty"`
	Amount     Money         `json:"amount" validate:"gte=0"`
	Month      string        `json:"month,omitempty"`
	DueDate    Date          `json:"due_date"`
	PaidAt     Date          `json:"paid_at"`
	Method     string        `json:"method,omitempty"`
	Reference  string        `json:"reference,omitempty"`
	Status     PaymentStatus `json:"status" validate:"required"`
}

type DepositStatus string

const (
	DepositHeld              DepositStatus = "held"
	DepositRefunded          DepositStatus = "refunded"
	DepositPartiallyRefunded DepositStatus = "partially_refunded"
)

type DepositRecord struct {
	ID           users.ID      `json:"id" validate:"required"`
	Amount       Money         `json:"amount" validate:"gte=0"`
	PaidAt       Date          `json:"paid_at"`
	Status       DepositStatus `json:"status" validate:"required"`
	RefundAmount Money         `json:"refund_amount" validate:"gte=0"`
	Deductions   Money         `json:"deductions" validate:"gte=0"`
	Notes        string        `json:"notes,omitempty"`
}

type WaterBill struct {
	ID              users.ID `json:"id" validate:"required"`
	TenantID        users.ID `json:"tenant_id,omitempty"`
	RoomNumber      string   `json:"room_number,omitempty"`
	Month           string   `json:"month" validate:"required"`
	PreviousReading float64  `json:"previous_reading" validate:"gte=0"`
	CurrentReading  float64  `json:"current_reading" validate:"gte=0"`
	Units           float64  `json:"units" validate:"gte=0"`
	RatePerUnit     Money    `json:"rate_per_unit" validate:"gte=0"`
	Amount          Money    `json:"amount" validate:"gte=0"`
	Status          string   `json:"status,omitempty"`
}

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

// MaintenanceStatuses lists the statuses a caretaker can choose from
var MaintenanceStatuses = []MaintenanceStatus{MaintenancePending, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

type MaintenanceRequest struct {
	ID          users.ID          `json:"id" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description,omitempty"`
	Priority    Priority          `json:"priority,omitempty"`
	Status      MaintenanceStatus `json:"status" validate:"required"`
	RoomNumber  string            `json:"room_number,omitempty"`
	TenantName  string            `json:"tenant_name,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   Date              `json:"created_at"`
	UpdatedAt   Date              `json:"updated_at"`
}

// Open reports whether the request still needs attention
func (m MaintenanceRequest) Open() bool {
	return m.Status == MaintenancePending || m.Status == MaintenanceInProgress
}

type VacateStatus string

const (
	VacatePending  VacateStatus = "pending"
	VacateApproved VacateStatus = "approved"
	VacateRejected VacateStatus = "rejected"
)

type VacateNotice struct {
	ID          users.ID     `json:"id" validate:"required"`
	TenantID    users.ID     `json:"tenant_id,omitempty"`
	TenantName  string       `json:"tenant_name,omitempty"`
	RoomNumber  string       `json:"room_number,omitempty"`
	MoveOutDate Date         `json:"move_out_date"`
	Reason      string       `json:"reason,omitempty"`
	Status      VacateStatus `json:"status" validate:"required"`
	CreatedAt   Date         `json:"created_at"`
}

type Room struct {
	ID          users.ID `json:"id" validate:"required"`
	Number      string   `json:"room_number" validate:"required"`
	Type        string   `json:"room_type,omitempty"`
	Floor       string   `json:"floor,omitempty"`
	MonthlyRent Money    `json:"monthly_rent" validate:"gte=0"`
	Status      string   `json:"status,omitempty"`
}

// TenantSummary is one row of the admin tenant list
type TenantSummary struct {
	ID          users.ID    `json:"id" validate:"required"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	RoomNumber  string      `json:"room_number,omitempty"`
	LeaseStatus LeaseStatus `json:"lease_status,omitempty"`
	Balance     Money       `json:"balance"`
}

// TenantDetail is everything an admin sees about one tenant
type TenantDetail struct {
	TenantSummary
	Lease       *Lease               `json:"lease,omitempty"`
	Payments    []RentPayment        `json:"payments" validate:"dive"`
	Maintenance []MaintenanceRequest `json:"maintenance" validate:"dive"`
	Vacate      *VacateNotice        `json:"vacate_notice,omitempty"`
}

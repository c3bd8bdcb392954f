package rentals

import (
	"errors"

	"github.com/jrsteele09/go-rental-portal/users"
)

// LeaseSignature accepts the lease terms
type LeaseSignature struct {
	AcceptTerms   bool   `json:"accept_terms" validate:"required"`
	SignatureName string `json:"signature_name" validate:"required,min=2,max=100"`
}

// PaymentRequest starts a rent payment
type PaymentRequest struct {
	Amount Money  `json:"amount" validate:"gt=0"`
	Method string `json:"method" validate:"required,oneof=mpesa bank card"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,phone"`
	Month  string `json:"month,omitempty" validate:"omitempty,datetime=2006-01"`
}

type MaintenanceSubmission struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Priority    Priority `json:"priority" validate:"required,oneof=low medium high urgent"`
}

type MaintenanceUpdate struct {
	Status MaintenanceStatus `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	Notes  string            `json:"notes,omitempty" validate:"max=500"`
}

type VacateRequest struct {
	MoveOutDate string `json:"move_out_date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason,omitempty" validate:"max=500"`
}

type VacateDecision struct {
	Status VacateStatus `json:"status" validate:"required,oneof=approved rejected"`
	Notes  string       `json:"notes,omitempty" validate:"max=500"`
}

// WaterBillEntry records a meter reading for one tenant
type WaterBillEntry struct {
	TenantID        string  `json:"tenant_id" validate:"required"`
	Month           string  `json:"month" validate:"required,datetime=2006-01"`
	PreviousReading float64 `json:"previous_reading" validate:"gte=0"`
	CurrentReading  float64 `json:"current_reading" validate:"gtefield=PreviousReading"`
	RatePerUnit     Money   `json:"rate_per_unit" validate:"gt=0"`
}

// Units is the consumption implied by the readings
func (w WaterBillEntry) Units() float64 {
	return w.CurrentReading - w.PreviousReading
}

// Check validates the request, including the phone number M-Pesa needs
func (p PaymentRequest) Check() error {
	if err := Validate(p); err != nil {
		return err
	}
	if p.Method == "mpesa" && p.Phone == "" {
		return errors.New("phone is required for M-Pesa payments")
	}
	return nil
}

// Validate checks a form with the shared validator and returns a user facing message
func Validate(form any) error {
	return users.Validate(form)
}

package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VendorStatus estado de una solicitud de vendedor.
type VendorStatus string

// Estados posibles. Pending es el inicial; Approved y Rejected son finales.
const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusRejected VendorStatus = "rejected"
)

// ParseVendorStatus interpreta el estado sin distinguir mayúsculas.
func ParseVendorStatus(s string) (VendorStatus, error) {
	switch VendorStatus(strings.ToLower(strings.TrimSpace(s))) {
	case VendorStatusPending:
		return VendorStatusPending, nil
	case VendorStatusApproved:
		return VendorStatusApproved, nil
	case VendorStatusRejected:
		return VendorStatusRejected, nil
	}
	return "", fmt.Errorf("estado de vendedor desconocido: %q", s)
}

func (s VendorStatus) String() string { return string(s) }

// IsTerminal indica si no hay transiciones de salida desde s.
func (s VendorStatus) IsTerminal() bool {
	return s == VendorStatusApproved || s == VendorStatusRejected
}

// CanTransitionTo solo permite Pending → Approved y Pending → Rejected.
func (s VendorStatus) CanTransitionTo(next VendorStatus) bool {
	return s == VendorStatusPending && next.IsTerminal()
}

// Vendor solicitud de alta de un vendedor del marketplace.
// Invariante: RejectionReason != nil si y solo si Status == Rejected.
type Vendor struct {
	ID              uuid.UUID
	Name            string
	Phone           string // E.164
	IDDocumentURL   string
	Status          VendorStatus
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyStatus cambia el estado manteniendo la invariante del motivo de rechazo.
func (v *Vendor) ApplyStatus(status VendorStatus, reason *string, at time.Time) {
	v.Status = status
	if status == VendorStatusRejected {
		r := *reason
		v.RejectionReason = &r
	} else {
		v.RejectionReason = nil
	}
	v.UpdatedAt = at
}

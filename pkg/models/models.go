package models

import (
	"time"

	"gorm.io/datatypes"
)

type LifecycleState string

const (
	LifecycleInventory      LifecycleState = "inventory"
	LifecycleAllocated      LifecycleState = "allocated"
	LifecycleShipped        LifecycleState = "shipped"
	LifecycleDelivered      LifecycleState = "delivered"
	LifecycleInstalled      LifecycleState = "installed"
	LifecycleCommissioned   LifecycleState = "commissioned"
	LifecycleActive         LifecycleState = "active"
	LifecycleMaintenance    LifecycleState = "maintenance"
	LifecycleDecommissioned LifecycleState = "decommissioned"
)

// DeviceCommissionStatus is the summary of the device's latest commission
// kept on the device row for listing and filtering.
type DeviceCommissionStatus string

const (
	DeviceCommissionPending    DeviceCommissionStatus = "pending"
	DeviceCommissionInProgress DeviceCommissionStatus = "in_progress"
	DeviceCommissionPassed     DeviceCommissionStatus = "passed"
	DeviceCommissionFailed     DeviceCommissionStatus = "failed"
)

type Device struct {
	ID               string                 `gorm:"primaryKey" json:"id"`
	SerialNumber     string                 `gorm:"uniqueIndex" json:"serial_number"`
	SKU              string                 `json:"sku"`
	DeviceType       string                 `gorm:"index" json:"device_type"`
	Lifecycle        LifecycleState         `gorm:"type:varchar(20);index" json:"lifecycle"`
	CommissionStatus DeviceCommissionStatus `gorm:"type:varchar(20);index" json:"commission_status"`

	OrderID      *string `gorm:"index" json:"order_id,omitempty"`
	SiteID       *string `json:"site_id,omitempty"`
	CustomerID   *string `gorm:"index" json:"customer_id,omitempty"`
	InstallerID  *string `json:"installer_id,omitempty"`
	CommissionID *string `json:"commission_id,omitempty"`

	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`

	AllocatedAt      *time.Time `json:"allocated_at,omitempty"`
	ShippedAt        *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	InstalledAt      *time.Time `json:"installed_at,omitempty"`
	CommissionedAt   *time.Time `json:"commissioned_at,omitempty"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	MaintenanceAt    *time.Time `json:"maintenance_at,omitempty"`
	DecommissionedAt *time.Time `json:"decommissioned_at,omitempty"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransitionMetadata carries the optional facts recorded with a lifecycle
// move. Which fields matter depends on the target state.
type TransitionMetadata struct {
	Actor          string `json:"actor,omitempty"`
	Reason         string `json:"reason,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	OrderID        string `json:"order_id,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	SiteID         string `json:"site_id,omitempty"`
	InstallerID    string `json:"installer_id,omitempty"`
	CommissionID   string `json:"commission_id,omitempty"`
}

// DeviceTransition is the append-only audit row written for every applied
// lifecycle move.
type DeviceTransition struct {
	ID        uint                                   `gorm:"primaryKey" json:"id"`
	DeviceID  string                                 `gorm:"index" json:"device_id"`
	From      LifecycleState                         `gorm:"type:varchar(20)" json:"from"`
	To        LifecycleState                         `gorm:"type:varchar(20)" json:"to"`
	Metadata  datatypes.JSONType[TransitionMetadata] `json:"metadata"`
	CreatedAt time.Time                              `json:"created_at"`
}

// Order, Site and Customer are owned by the order and CRM side of the
// application; this service only reads them.
type Order struct {
	ID         string  `gorm:"primaryKey" json:"id"`
	CustomerID string  `gorm:"index" json:"customer_id"`
	SiteID     *string `json:"site_id,omitempty"`
	CRMDealID  string  `json:"crm_deal_id,omitempty"`
	Status     string  `json:"status"`
}

type Site struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Customer struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

package models

import "time"

// OrderStatus is derived from the boolean/nullable flags the server returns;
// it is never set directly by a client.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAssigned  OrderStatus = "assigned"
	StatusAccepted  OrderStatus = "accepted"
	StatusCompleted OrderStatus = "completed"
	StatusRejected  OrderStatus = "rejected"
	StatusDeleted   OrderStatus = "deleted"
)

// IsTerminal reports whether no further transition may leave this status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusDeleted
}

// Order represents one booking between a client and (eventually) a reader.
type Order struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"clientId"`
	ReaderID *int64 `json:"readerId,omitempty"`

	OrderDate time.Time `json:"orderDate"`

	AddressOne string   `json:"addressOne"`
	AddressTwo string   `json:"addressTwo,omitempty"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	PostNumber int      `json:"postNumber"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	IsAccepted  bool `json:"isAccepted"`
	IsCompleted bool `json:"isCompleted"`
	IsRejected  bool `json:"isRejected"`
	IsDeleted   bool `json:"isDeleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status derives the order's lifecycle state from its server-owned flags.
func (o *Order) Status() OrderStatus {
	return DeriveStatus(o.ReaderID, o.IsAccepted, o.IsCompleted, o.IsRejected, o.IsDeleted)
}

// DeriveStatus is the single place the flag vocabulary is interpreted:
// deletion dominates everything, rejection is terminal, completion only
// counts once the order was accepted, and an attached reader without
// acceptance is "assigned", not "accepted".
func DeriveStatus(readerID *int64, accepted, completed, rejected, deleted bool) OrderStatus {
	switch {
	case deleted:
		return StatusDeleted
	case rejected:
		return StatusRejected
	case accepted && completed:
		return StatusCompleted
	case accepted:
		return StatusAccepted
	case readerID != nil:
		return StatusAssigned
	default:
		return StatusPending
	}
}

// OrderPatch is the set of fields a confirmed mutation may change on a
// cached order. Identity fields (id, clientId) are deliberately absent so a
// patch can never alter them, and unset fields never leak between unrelated
// mutations.
type OrderPatch struct {
	ReaderID    *int64
	IsAccepted  *bool
	IsCompleted *bool
	IsRejected  *bool
	IsDeleted   *bool
	OrderDate   *time.Time
	AddressOne  *string
	AddressTwo  *string
	City        *string
	Country     *string
	PostNumber  *int
	Latitude    *float64
	Longitude   *float64
	UpdatedAt   *time.Time
}

// Apply merges the patch into the order, touching only set fields.
func (p OrderPatch) Apply(o *Order) {
	if p.ReaderID != nil {
		id := *p.ReaderID
		o.ReaderID = &id
	}
	if p.IsAccepted != nil {
		o.IsAccepted = *p.IsAccepted
	}
	if p.IsCompleted != nil {
		o.IsCompleted = *p.IsCompleted
	}
	if p.IsRejected != nil {
		o.IsRejected = *p.IsRejected
	}
	if p.IsDeleted != nil {
		o.IsDeleted = *p.IsDeleted
	}
	if p.OrderDate != nil {
		o.OrderDate = *p.OrderDate
	}
	if p.AddressOne != nil {
		o.AddressOne = *p.AddressOne
	}
	if p.AddressTwo != nil {
		o.AddressTwo = *p.AddressTwo
	}
	if p.City != nil {
		o.City = *p.City
	}
	if p.Country != nil {
		o.Country = *p.Country
	}
	if p.PostNumber != nil {
		o.PostNumber = *p.PostNumber
	}
	if p.Latitude != nil {
		o.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		o.Longitude = p.Longitude
	}
	if p.UpdatedAt != nil {
		o.UpdatedAt = *p.UpdatedAt
	}
}

// ConfirmedPatch builds a patch from a server-confirmed order so the cache
// is only ever updated with server-computed state, never client guesses.
func ConfirmedPatch(confirmed Order) OrderPatch {
	p := OrderPatch{
		IsAccepted:  &confirmed.IsAccepted,
		IsCompleted: &confirmed.IsCompleted,
		IsRejected:  &confirmed.IsRejected,
		IsDeleted:   &confirmed.IsDeleted,
		OrderDate:   &confirmed.OrderDate,
		AddressOne:  &confirmed.AddressOne,
		AddressTwo:  &confirmed.AddressTwo,
		City:        &confirmed.City,
		Country:     &confirmed.Country,
		PostNumber:  &confirmed.PostNumber,
		Latitude:    confirmed.Latitude,
		Longitude:   confirmed.Longitude,
		UpdatedAt:   &confirmed.UpdatedAt,
	}
	if confirmed.ReaderID != nil {
		p.ReaderID = confirmed.ReaderID
	}
	return p
}

// AssignOrderRequest is the admin assignment payload.
type AssignOrderRequest struct {
	ReaderID int64 `json:"readerId" validate:"required,gt=0"`
}

// AcceptOrderRequest is the reader self-accept payload. The reader id must
// match the caller's token server-side; the body mirrors the assignment
// payload on the wire.
type AcceptOrderRequest struct {
	ReaderID int64 `json:"readerId" validate:"required,gt=0"`
}

// UpdateOrderRequest carries the fields a client may edit while the order is
// still pending. Coordinates are write-once within an edit session; that is
// a view-layer affordance, here they are plain optional fields.
type UpdateOrderRequest struct {
	OrderDate  *time.Time `json:"orderDate,omitempty"`
	AddressOne *string    `json:"addressOne,omitempty" validate:"omitempty,min=1"`
	AddressTwo *string    `json:"addressTwo,omitempty"`
	City       *string    `json:"city,omitempty" validate:"omitempty,min=1"`
	Country    *string    `json:"country,omitempty" validate:"omitempty,min=1"`
	PostNumber *int       `json:"postNumber,omitempty" validate:"omitempty,gt=0"`
	Latitude   *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// Patch converts the request into an order patch.
func (r UpdateOrderRequest) Patch() OrderPatch {
	return OrderPatch{
		OrderDate:  r.OrderDate,
		AddressOne: r.AddressOne,
		AddressTwo: r.AddressTwo,
		City:       r.City,
		Country:    r.Country,
		PostNumber: r.PostNumber,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

// CreateOrderRequest is the payload a client submits to book a reading.
type CreateOrderRequest struct {
	OrderDate  time.Time `json:"orderDate" validate:"required"`
	AddressOne string    `json:"addressOne" validate:"required"`
	AddressTwo string    `json:"addressTwo,omitempty"`
	City       string    `json:"city" validate:"required"`
	Country    string    `json:"country" validate:"required"`
	PostNumber int       `json:"postNumber" validate:"required,gt=0"`
	Latitude   *float64  `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64  `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

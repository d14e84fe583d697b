package models

import (
	"preludio/src/types"
	"time"
)

type Pago struct {
	ID       uint             `gorm:"primarykey" json:"id"`
	TicketID uint             `json:"ticket,omitempty"`
	Metodo   types.MetodoPago `json:"metodo,omitempty"`
	Monto    float64          `json:"monto"`

	// FechaPago is server-assigned at checkout and immutable afterwards.
	FechaPago time.Time `json:"fechaPago,omitempty"`

	Estado            types.PagoEstado `gorm:"default:'PENDIENTE'" json:"estado,omitempty"`
	ReferenciaExterna *string          `json:"referenciaExterna,omitempty"`

	Ticket *Ticket `gorm:"foreignKey:TicketID" json:"ticketDetalle,omitempty"`

	types.Timestamps
}

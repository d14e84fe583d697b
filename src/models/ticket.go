package models

import (
	"preludio/src/types"
	"time"
)

type Ticket struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	EventoID     uint               `json:"evento,omitempty"`
	CompradorID  uint               `json:"comprador,omitempty"`
	TipoEntrada  types.TipoEntrada  `json:"tipoEntrada,omitempty"`
	PrecioPagado float64            `json:"precioPagado"`
	FechaCompra  time.Time          `json:"fechaCompra,omitempty"`
	CodigoQR     string             `json:"codigoQR,omitempty"`
	Estado       types.TicketEstado `gorm:"default:'VALIDO'" json:"estado,omitempty"`

	Evento    *Event `gorm:"foreignKey:EventoID" json:"eventoDetalle,omitempty"`
	Comprador *User  `gorm:"foreignKey:CompradorID" json:"compradorDetalle,omitempty"`

	types.Timestamps
}

package models

import (
	"preludio/src/types"
	"time"
)

type Ubicacion struct {
	Lugar     string `json:"lugar,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Ciudad    string `json:"ciudad,omitempty"`
	Provincia string `json:"provincia,omitempty"`
}

type Event struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Titulo      string    `json:"titulo,omitempty"`
	Descripcion string    `json:"descripcion,omitempty"`
	Categoria   string    `json:"categoria,omitempty"`
	Fecha       time.Time `json:"fecha,omitempty"`
	Hora        string    `json:"hora,omitempty"`
	Ubicacion   Ubicacion `gorm:"embedded;embeddedPrefix:ubicacion_" json:"ubicacion"`

	// Inventory pair. Only the purchase flow decrements EntradasDisponibles;
	// capacity edits adjust it by delta so already-sold seats survive.
	CapacidadTotal      uint `json:"capacidadTotal"`
	EntradasDisponibles uint `json:"entradasDisponibles"`

	PrecioBase float64 `json:"precioBase"`
	CreadorID  uint    `json:"creador,omitempty"`
	Imagen     *string `json:"imagen,omitempty"`
	LinkCompra *string `json:"linkCompra,omitempty"`
	Slug       string  `json:"slug,omitempty"`

	EstadoPublicacion types.EstadoPublicacion `gorm:"default:'PENDING'" json:"estadoPublicacion,omitempty"`
	Estado            types.EventoEstado      `gorm:"default:'Activo'" json:"estado,omitempty"`
	FechaPublicacion  *time.Time              `json:"fechaPublicacion,omitempty"`

	Creador User     `gorm:"foreignKey:CreadorID" json:"-"`
	Tickets []Ticket `gorm:"foreignKey:EventoID" json:"tickets,omitempty"`

	types.Timestamps
}

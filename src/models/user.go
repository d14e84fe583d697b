package models

import (
	"preludio/src/types"
	"time"
)

type User struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Nombre          string     `json:"nombre,omitempty"`
	Apellido        string     `json:"apellido,omitempty"`
	DNI             string     `gorm:"uniqueIndex" json:"dni,omitempty"`
	Email           string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Password        string     `json:"-"`
	FechaNacimiento *time.Time `json:"fechaNacimiento,omitempty"`
	Telefono        string     `json:"telefono,omitempty"`
	Rol             types.Rol  `gorm:"default:'USUARIO'" json:"rol,omitempty"`

	// ComprasRealizadas is the buyer's purchase list: creating a ticket with
	// this user as comprador appends to it, an admin hard delete detaches.
	ComprasRealizadas []Ticket `gorm:"foreignKey:CompradorID" json:"comprasRealizadas,omitempty"`
	EventosCreados    []Event  `gorm:"foreignKey:CreadorID" json:"eventosCreados,omitempty"`

	types.Timestamps
}

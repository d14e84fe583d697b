package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"createdAt,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updatedAt,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Rol string

const (
	ROLE_ADMIN   Rol = "ADMIN"
	ROLE_USUARIO Rol = "USUARIO"
)

type EstadoPublicacion string

const (
	PUBLICACION_PENDING   EstadoPublicacion = "PENDING"
	PUBLICACION_PUBLISHED EstadoPublicacion = "PUBLISHED"
	PUBLICACION_PAST      EstadoPublicacion = "PAST"
)

type EventoEstado string

const (
	EVENTO_ACTIVO     EventoEstado = "Activo"
	EVENTO_FINALIZADO EventoEstado = "Finalizado"
	EVENTO_CANCELADO  EventoEstado = "Cancelado"
)

type TicketEstado string

const (
	TICKET_VALIDO    TicketEstado = "VALIDO"
	TICKET_USADO     TicketEstado = "USADO"
	TICKET_CANCELADO TicketEstado = "CANCELADO"
)

type TipoEntrada string

const (
	ENTRADA_GENERAL TipoEntrada = "GENERAL"
	ENTRADA_VIP     TipoEntrada = "VIP"
	ENTRADA_PREMIUM TipoEntrada = "PREMIUM"
)

type PagoEstado string

const (
	PAGO_PENDIENTE  PagoEstado = "PENDIENTE"
	PAGO_COMPLETADO PagoEstado = "COMPLETADO"
	PAGO_FALLIDO    PagoEstado = "FALLIDO"
)

type MetodoPago string

const (
	METODO_MERCADOPAGO MetodoPago = "MercadoPago"
	METODO_TARJETA     MetodoPago = "Tarjeta"
	METODO_EFECTIVO    MetodoPago = "Efectivo"
)

// Categorias are the accepted event categories, backing the "categoria"
// binding validator.
var Categorias = []string{"Concierto", "Teatro", "Deporte", "Festival", "Otro"}

type RegisterUserRequestBody struct {
	Nombre          string `json:"nombre" binding:"required"`
	Apellido        string `json:"apellido" binding:"required"`
	DNI             string `json:"dni" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	FechaNacimiento string `json:"fechaNacimiento" binding:"required"`
	Telefono        string `json:"telefono" binding:"required"`
	Rol             Rol    `json:"rol,omitempty" binding:"omitempty,oneof=ADMIN USUARIO"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UbicacionBody struct {
	Lugar     string `json:"lugar"`
	Direccion string `json:"direccion"`
	Ciudad    string `json:"ciudad"`
	Provincia string `json:"provincia"`
}

// EventRequestBody covers create and update. Ubicacion may arrive nested or
// flattened (lugar/direccion/ciudad/provincia at the top level); handlers
// normalize to the nested form before validating completeness.
type EventRequestBody struct {
	Titulo      string         `json:"titulo"`
	Descripcion string         `json:"descripcion"`
	Categoria   string         `json:"categoria" binding:"omitempty,categoria"`
	Fecha       string         `json:"fecha"`
	Hora        string         `json:"hora" binding:"omitempty,horadia"`
	Ubicacion   *UbicacionBody `json:"ubicacion"`
	Lugar       string         `json:"lugar"`
	Direccion   string         `json:"direccion"`
	Ciudad      string         `json:"ciudad"`
	Provincia   string         `json:"provincia"`

	CapacidadTotal      *uint    `json:"capacidadTotal"`
	EntradasDisponibles *uint    `json:"entradasDisponibles"`
	PrecioBase          *float64 `json:"precioBase"`
	Imagen              *string  `json:"imagen"`
	LinkCompra          *string  `json:"linkCompra"`
	Estado              *string  `json:"estado" binding:"omitempty,oneof=Activo Finalizado Cancelado"`
	Creador             *uint    `json:"creador"`
}

type CreateTicketRequestBody struct {
	Evento       uint        `json:"evento" binding:"required"`
	TipoEntrada  TipoEntrada `json:"tipoEntrada" binding:"required,oneof=GENERAL VIP PREMIUM"`
	PrecioPagado *float64    `json:"precioPagado"`
	Comprador    *uint       `json:"comprador"`
}

type UpdateTicketRequestBody struct {
	TipoEntrada  *TipoEntrada  `json:"tipoEntrada" binding:"omitempty,oneof=GENERAL VIP PREMIUM"`
	PrecioPagado *float64      `json:"precioPagado"`
	Estado       *TicketEstado `json:"estado" binding:"omitempty,oneof=VALIDO USADO CANCELADO"`
}

type CheckoutRequestBody struct {
	TicketID          *uint       `json:"ticketId"`
	Metodo            MetodoPago  `json:"metodo" binding:"required,oneof=MercadoPago Tarjeta Efectivo"`
	Monto             float64     `json:"monto" binding:"required,gt=0"`
	ReferenciaExterna *string     `json:"referenciaExterna"`
	Evento            *uint       `json:"evento"`
	TipoEntrada       TipoEntrada `json:"tipoEntrada" binding:"omitempty,oneof=GENERAL VIP PREMIUM"`
	PrecioPagado      *float64    `json:"precioPagado"`
}

type ReviewRequestBody struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// UserPatchBody carries every mutable user field; the policy allowlist
// decides which of them a given role may actually apply.
type UserPatchBody struct {
	Nombre          *string `json:"nombre"`
	Apellido        *string `json:"apellido"`
	DNI             *string `json:"dni"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Telefono        *string `json:"telefono"`
	FechaNacimiento *string `json:"fechaNacimiento"`
	Password        *string `json:"password" binding:"omitempty,min=6"`
	Rol             *Rol    `json:"rol" binding:"omitempty,oneof=ADMIN USUARIO"`
}

type ChangePasswordRequestBody struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"preludio/src/config"
	"preludio/src/lib"
	"preludio/src/models"
	"preludio/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

func GenerateJWT(user *models.User) (string, error) {
	claims := &types.Claims{
		Email: user.Email,
		Rol:   user.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func GenerateRefreshToken(userID uint) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.Itoa(int(userID)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_REFRESH_SECRET")))
}

// MapStoreError translates store failures into the API taxonomy so raw
// driver errors never reach the wire.
func MapStoreError(err error, notFoundMsg string) *types.APIError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewAPIError(types.ErrNotFound, notFoundMsg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
		return types.NewAPIError(types.ErrConflict, "Valor duplicado")
	}
	log.Printf("store error: %s\n", err.Error())
	return types.NewAPIError(types.ErrInternal, "Error interno del servidor")
}

// BuildCodigoQR derives the ticket QR payload. Deterministic on purpose:
// the same event, buyer document and entry type always produce the same
// string.
func BuildCodigoQR(eventID uint, dni string, tipo types.TipoEntrada) string {
	return fmt.Sprintf("%d-%s-%s", eventID, dni, tipo)
}

// CreateTicketForUser is the single purchase path. The availability
// decrement is a conditional UPDATE so two concurrent purchases can never
// consume the same seat, and it runs in one transaction with the ticket
// insert: if the insert fails the decrement rolls back with it.
func CreateTicketForUser(db *gorm.DB, eventoID, compradorID uint, tipo types.TipoEntrada, precioPagado *float64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: eventoID}).
			First(&event).
			Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}

		res := tx.
			Model(&models.Event{}).
			Where("id = ? AND entradas_disponibles > 0", eventoID).
			UpdateColumn("entradas_disponibles", gorm.Expr("entradas_disponibles - 1"))
		if res.Error != nil {
			return MapStoreError(res.Error, "Evento no encontrado")
		}
		if res.RowsAffected == 0 {
			return types.NewAPIError(types.ErrSoldOut, "No hay entradas disponibles para este evento")
		}

		var comprador models.User
		if err := tx.
			Model(&models.User{}).
			Select("id", "dni").
			Where(&models.User{ID: compradorID}).
			First(&comprador).
			Error; err != nil {
			return MapStoreError(err, "Usuario no encontrado")
		}

		precio := event.PrecioBase
		if precioPagado != nil {
			precio = *precioPagado
		}
		ticket = models.Ticket{
			EventoID:     eventoID,
			CompradorID:  compradorID,
			TipoEntrada:  tipo,
			PrecioPagado: precio,
			FechaCompra:  time.Now(),
			CodigoQR:     BuildCodigoQR(event.ID, comprador.DNI, tipo),
			Estado:       types.TICKET_VALIDO,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	go lib.InvalidateEventCache(eventoID)
	return &ticket, nil
}

// NextAvailability recomputes the free-seat counter after a capacity edit.
// The sold count is preserved: availability moves by the capacity delta and
// is floored at zero.
func NextAvailability(currentAvailable, oldCapacity, newCapacity uint) uint {
	next := int(currentAvailable) + (int(newCapacity) - int(oldCapacity))
	if next < 0 {
		return 0
	}
	return uint(next)
}

// ValidateAvailabilityOverride checks an explicitly supplied availability
// against the (possibly just-updated) capacity.
func ValidateAvailabilityOverride(available, capacity uint) error {
	if available > capacity {
		return types.NewAPIError(types.ErrInvalidInventory,
			fmt.Sprintf("entradasDisponibles (%d) no puede superar capacidadTotal (%d)", available, capacity))
	}
	return nil
}

var horaRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func ValidHora(hora string) bool {
	return horaRe.MatchString(hora)
}

// NormalizeUbicacion accepts the nested object or the flattened top-level
// fields and returns the nested form, preferring nested values when both
// are present.
func NormalizeUbicacion(body *types.EventRequestBody) models.Ubicacion {
	u := models.Ubicacion{
		Lugar:     body.Lugar,
		Direccion: body.Direccion,
		Ciudad:    body.Ciudad,
		Provincia: body.Provincia,
	}
	if body.Ubicacion != nil {
		if body.Ubicacion.Lugar != "" {
			u.Lugar = body.Ubicacion.Lugar
		}
		if body.Ubicacion.Direccion != "" {
			u.Direccion = body.Ubicacion.Direccion
		}
		if body.Ubicacion.Ciudad != "" {
			u.Ciudad = body.Ubicacion.Ciudad
		}
		if body.Ubicacion.Provincia != "" {
			u.Provincia = body.Ubicacion.Provincia
		}
	}
	return u
}

func ubicacionComplete(u models.Ubicacion) bool {
	return u.Lugar != "" && u.Direccion != "" && u.Ciudad != "" && u.Provincia != ""
}

// ValidateEventBody performs the controller-boundary checks for event
// create/update before anything touches the store.
func ValidateEventBody(body *types.EventRequestBody, forCreate bool) (*models.Event, error) {
	fail := func(msg string) (*models.Event, error) {
		return nil, types.NewAPIError(types.ErrValidation, msg)
	}
	if forCreate || body.Titulo != "" {
		if strings.TrimSpace(body.Titulo) == "" {
			return fail("El titulo es obligatorio")
		}
	}
	if forCreate || body.Descripcion != "" {
		if strings.TrimSpace(body.Descripcion) == "" {
			return fail("La descripcion es obligatoria")
		}
	}
	if forCreate && body.Categoria == "" {
		return fail("La categoria es obligatoria")
	}

	event := &models.Event{
		Titulo:      strings.TrimSpace(body.Titulo),
		Descripcion: strings.TrimSpace(body.Descripcion),
		Categoria:   body.Categoria,
	}

	if forCreate || body.Fecha != "" {
		if body.Fecha == "" {
			return fail("La fecha es obligatoria")
		}
		fecha, err := time.Parse(config.DATE_PARSE_FORMAT, body.Fecha)
		if err != nil {
			return fail("Formato de fecha invalido")
		}
		event.Fecha = fecha
	}
	if forCreate || body.Hora != "" {
		if !ValidHora(body.Hora) {
			return fail("La hora debe tener formato HH:MM")
		}
		event.Hora = body.Hora
	}

	u := NormalizeUbicacion(body)
	if forCreate || u != (models.Ubicacion{}) {
		if !ubicacionComplete(u) {
			return fail("La ubicacion requiere lugar, direccion, ciudad y provincia")
		}
		event.Ubicacion = u
	}

	if forCreate && body.CapacidadTotal == nil {
		return fail("capacidadTotal es obligatoria")
	}
	if body.CapacidadTotal != nil {
		if *body.CapacidadTotal == 0 {
			return fail("capacidadTotal debe ser positiva")
		}
		event.CapacidadTotal = *body.CapacidadTotal
	}
	if forCreate && body.PrecioBase == nil {
		return fail("precioBase es obligatorio")
	}
	if body.PrecioBase != nil {
		if *body.PrecioBase < 0 {
			return fail("precioBase no puede ser negativo")
		}
		event.PrecioBase = *body.PrecioBase
	}
	if event.Titulo != "" {
		event.Slug = slug.Make(event.Titulo)
	}
	return event, nil
}

// CreateNewEvent persists an admin-created event. The creator is always the
// caller; availability defaults to the full capacity.
func CreateNewEvent(db *gorm.DB, body *types.EventRequestBody, creatorID uint) (*models.Event, error) {
	event, err := ValidateEventBody(body, true)
	if err != nil {
		return nil, err
	}
	event.CreadorID = creatorID
	event.Imagen = body.Imagen
	event.LinkCompra = body.LinkCompra
	event.EntradasDisponibles = event.CapacidadTotal
	if body.EntradasDisponibles != nil {
		if err := ValidateAvailabilityOverride(*body.EntradasDisponibles, event.CapacidadTotal); err != nil {
			return nil, err
		}
		event.EntradasDisponibles = *body.EntradasDisponibles
	}
	event.EstadoPublicacion = types.PUBLICACION_PENDING
	event.Estado = types.EVENTO_ACTIVO

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent applies an admin edit. Capacity changes route through the
// delta rule unless the caller overrides availability explicitly, and the
// creator reference is immutable.
func UpdateEvent(db *gorm.DB, id uint, body *types.EventRequestBody) (*models.Event, error) {
	if body.Creador != nil {
		return nil, types.NewAPIError(types.ErrValidation, "El creador del evento no puede modificarse")
	}
	patch, err := ValidateEventBody(body, false)
	if err != nil {
		return nil, err
	}

	var event models.Event
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id}).
			First(&event).
			Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}

		updates := map[string]any{}
		if patch.Titulo != "" {
			updates["titulo"] = patch.Titulo
			updates["slug"] = patch.Slug
		}
		if patch.Descripcion != "" {
			updates["descripcion"] = patch.Descripcion
		}
		if patch.Categoria != "" {
			updates["categoria"] = patch.Categoria
		}
		if !patch.Fecha.IsZero() {
			updates["fecha"] = patch.Fecha
		}
		if patch.Hora != "" {
			updates["hora"] = patch.Hora
		}
		if patch.Ubicacion != (models.Ubicacion{}) {
			updates["ubicacion_lugar"] = patch.Ubicacion.Lugar
			updates["ubicacion_direccion"] = patch.Ubicacion.Direccion
			updates["ubicacion_ciudad"] = patch.Ubicacion.Ciudad
			updates["ubicacion_provincia"] = patch.Ubicacion.Provincia
		}
		if body.PrecioBase != nil {
			updates["precio_base"] = *body.PrecioBase
		}
		if body.Imagen != nil {
			updates["imagen"] = *body.Imagen
		}
		if body.LinkCompra != nil {
			updates["link_compra"] = *body.LinkCompra
		}
		if body.Estado != nil {
			updates["estado"] = *body.Estado
		}

		capacity := event.CapacidadTotal
		if body.CapacidadTotal != nil && *body.CapacidadTotal != event.CapacidadTotal {
			capacity = *body.CapacidadTotal
			updates["capacidad_total"] = capacity
			if body.EntradasDisponibles == nil {
				updates["entradas_disponibles"] = NextAvailability(event.EntradasDisponibles, event.CapacidadTotal, capacity)
			}
		}
		if body.EntradasDisponibles != nil {
			if err := ValidateAvailabilityOverride(*body.EntradasDisponibles, capacity); err != nil {
				return err
			}
			updates["entradas_disponibles"] = *body.EntradasDisponibles
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id}).
			Updates(updates).
			Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id}).
			First(&event).
			Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	go lib.InvalidateEventCache(id)
	return &event, nil
}

// PublishEvent flips an event to PUBLISHED. Requires the image and the
// purchase link to be present.
func PublishEvent(db *gorm.DB, id uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id}).
			First(&event).
			Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}
		if event.Imagen == nil || *event.Imagen == "" || event.LinkCompra == nil || *event.LinkCompra == "" {
			return types.NewAPIError(types.ErrValidation, "Publicar requiere imagen y linkCompra")
		}
		now := time.Now()
		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id}).
			Updates(map[string]any{
				"estado_publicacion": types.PUBLICACION_PUBLISHED,
				"fecha_publicacion":  now,
			}).Error; err != nil {
			return MapStoreError(err, "Evento no encontrado")
		}
		return nil
	})
	if err != nil {
		return err
	}
	go lib.InvalidateEventCache(id)
	return nil
}

// Checkout ensures a ticket exists (existing id or a fresh purchase) and
// records its completed payment. The two writes are a known two-step
// sequence: a failure between them surfaces as an error, it is not hidden.
func Checkout(db *gorm.DB, userID uint, esAdmin bool, body *types.CheckoutRequestBody) (*models.Pago, error) {
	if body.TicketID != nil && body.Evento != nil {
		return nil, types.NewAPIError(types.ErrValidation, "ticketId y evento son excluyentes")
	}
	var ticket *models.Ticket
	if body.TicketID != nil {
		var t models.Ticket
		if err := db.
			Model(&models.Ticket{}).
			Where(&models.Ticket{ID: *body.TicketID}).
			First(&t).
			Error; err != nil {
			return nil, MapStoreError(err, "Ticket no encontrado")
		}
		if !esAdmin && t.CompradorID != userID {
			return nil, types.NewAPIError(types.ErrForbidden, "No autorizado")
		}
		ticket = &t
	} else {
		if body.Evento == nil || body.TipoEntrada == "" {
			return nil, types.NewAPIError(types.ErrValidation, "Faltan datos para crear ticket")
		}
		created, err := CreateTicketForUser(db, *body.Evento, userID, body.TipoEntrada, body.PrecioPagado)
		if err != nil {
			return nil, err
		}
		ticket = created
	}

	referencia := body.ReferenciaExterna
	if referencia == nil && body.Metodo == types.METODO_TARJETA {
		if intentID, err := lib.CreatePaymentIntent(body.Monto, map[string]string{
			"ticket_id": fmt.Sprint(ticket.ID),
		}); err != nil {
			log.Printf("Error creating payment intent: %s\n", err.Error())
		} else if intentID != nil {
			referencia = intentID
		}
	}
	if referencia == nil {
		ref := uuid.NewString()
		referencia = &ref
	}

	pago := models.Pago{
		TicketID:          ticket.ID,
		Metodo:            body.Metodo,
		Monto:             body.Monto,
		FechaPago:         time.Now(),
		Estado:            types.PAGO_COMPLETADO,
		ReferenciaExterna: referencia,
	}
	if err := db.Create(&pago).Error; err != nil {
		return nil, MapStoreError(err, "Ticket no encontrado")
	}
	pago.Ticket = ticket
	return &pago, nil
}

// SweepPastEvents marks events whose date has passed: publication moves to
// PAST and still-active events finish. Swept events are evicted from the
// cache so no PUBLISHED payload outlives the flip. Runs from the scheduler.
func SweepPastEvents(db *gorm.DB) error {
	now := time.Now()
	var swept []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Event{}).
			Where("fecha < ? AND estado_publicacion <> ?", now, types.PUBLICACION_PAST).
			Pluck("id", &swept).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Event{}).
			Where("fecha < ? AND estado_publicacion <> ?", now, types.PUBLICACION_PAST).
			Update("estado_publicacion", types.PUBLICACION_PAST).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Event{}).
			Where("fecha < ? AND estado = ?", now, types.EVENTO_ACTIVO).
			Update("estado", types.EVENTO_FINALIZADO).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range swept {
		lib.InvalidateEventCache(id)
	}
	return nil
}

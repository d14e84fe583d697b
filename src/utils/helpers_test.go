package utils

import (
	"testing"

	"preludio/src/types"

	"github.com/stretchr/testify/assert"
)

func uintp(n uint) *uint        { return &n }
func floatp(f float64) *float64 { return &f }

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  ANA@Example.Com "))
	assert.Equal(t, "x@y.z", NormalizeEmail("x@y.z"))
}

func TestPasswordRoundtrip(t *testing.T) {
	digest, err := HashPassword("secreto123")
	assert.Nil(t, err)
	assert.NotEqual(t, "secreto123", digest)
	assert.True(t, CheckPassword("secreto123", digest))
	assert.False(t, CheckPassword("secreto124", digest))
}

func TestBuildCodigoQR(t *testing.T) {
	code := BuildCodigoQR(42, "30111222", types.ENTRADA_VIP)
	assert.Equal(t, "42-30111222-VIP", code)
	// deterministic
	assert.Equal(t, code, BuildCodigoQR(42, "30111222", types.ENTRADA_VIP))
}

func TestNextAvailability(t *testing.T) {
	cases := []struct {
		avail, oldCap, newCap, want uint
	}{
		{50, 100, 120, 70}, // grow capacity, availability grows by delta
		{50, 100, 80, 30},  // shrink capacity, availability shrinks by delta
		{10, 100, 50, 0},   // shrink past sold seats floors at zero
		{0, 100, 100, 0},   // no change
		{100, 100, 100, 100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NextAvailability(c.avail, c.oldCap, c.newCap))
	}
}

func TestValidateAvailabilityOverride(t *testing.T) {
	assert.Nil(t, ValidateAvailabilityOverride(0, 100))
	assert.Nil(t, ValidateAvailabilityOverride(100, 100))

	err := ValidateAvailabilityOverride(101, 100)
	assert.NotNil(t, err)
	apiErr := types.AsAPIError(err)
	assert.Equal(t, types.ErrInvalidInventory, apiErr.Kind)
	assert.Equal(t, 400, apiErr.Status())
}

func TestValidHora(t *testing.T) {
	valid := []string{"00:00", "09:30", "19:45", "23:59"}
	for _, h := range valid {
		assert.True(t, ValidHora(h), h)
	}
	invalid := []string{"24:00", "9:30", "12:60", "12-30", "mediodia", ""}
	for _, h := range invalid {
		assert.False(t, ValidHora(h), h)
	}
}

func TestValidateEventBodyCreate(t *testing.T) {
	base := func() *types.EventRequestBody {
		return &types.EventRequestBody{
			Titulo:      "Recital de rock",
			Descripcion: "Una noche de rock nacional",
			Categoria:   "Concierto",
			Fecha:       "2026-11-20",
			Hora:        "21:00",
			Ubicacion: &types.UbicacionBody{
				Lugar:     "Estadio Norte",
				Direccion: "Av. Siempre Viva 742",
				Ciudad:    "Rosario",
				Provincia: "Santa Fe",
			},
			CapacidadTotal: uintp(500),
			PrecioBase:     floatp(15000),
		}
	}

	event, err := ValidateEventBody(base(), true)
	assert.Nil(t, err)
	assert.Equal(t, "Recital de rock", event.Titulo)
	assert.Equal(t, "recital-de-rock", event.Slug)
	assert.Equal(t, uint(500), event.CapacidadTotal)

	b := base()
	b.Titulo = "   "
	_, err = ValidateEventBody(b, true)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)

	b = base()
	b.Fecha = "20/11/2026"
	_, err = ValidateEventBody(b, true)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)

	b = base()
	b.Hora = "25:00"
	_, err = ValidateEventBody(b, true)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)

	b = base()
	b.Ubicacion.Ciudad = ""
	_, err = ValidateEventBody(b, true)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)

	b = base()
	b.CapacidadTotal = uintp(0)
	_, err = ValidateEventBody(b, true)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)

	b = base()
	b.PrecioBase = floatp(-1)
	_, err = ValidateEventBody(b, true)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)
}

func TestValidateEventBodyUpdateIsPartial(t *testing.T) {
	event, err := ValidateEventBody(&types.EventRequestBody{Titulo: "Nuevo titulo"}, false)
	assert.Nil(t, err)
	assert.Equal(t, "Nuevo titulo", event.Titulo)
	assert.Equal(t, "nuevo-titulo", event.Slug)
	assert.Empty(t, event.Descripcion)
	assert.True(t, event.Fecha.IsZero())
}

func TestNormalizeUbicacionFlatAndNested(t *testing.T) {
	flat := &types.EventRequestBody{
		Lugar:     "Teatro Colon",
		Direccion: "Cerrito 628",
		Ciudad:    "Buenos Aires",
		Provincia: "CABA",
	}
	u := NormalizeUbicacion(flat)
	assert.Equal(t, "Teatro Colon", u.Lugar)
	assert.Equal(t, "CABA", u.Provincia)

	// nested values win over flattened ones
	mixed := &types.EventRequestBody{
		Lugar: "Ignorado",
		Ubicacion: &types.UbicacionBody{
			Lugar:     "Luna Park",
			Direccion: "Av. Madero 420",
			Ciudad:    "Buenos Aires",
			Provincia: "CABA",
		},
	}
	u = NormalizeUbicacion(mixed)
	assert.Equal(t, "Luna Park", u.Lugar)
}

package viewmodel

import (
	"testing"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFactura_RecalculaIgnorandoTotalGuardado(t *testing.T) {
	f := model.Factura{
		ID:     uuid.New(),
		Numero: "FAC-2024-0001",
		Total:  dec("999999"),
		Lineas: []model.LineaFactura{
			{ID: uuid.New(), Tipo: "mano_obra", Descripcion: "Chapa", PrecioUnitario: dec("100"), Cantidad: dec("2"), Descuento: dec("10"), TipoIVA: dec("21")},
			{ID: uuid.New(), Tipo: "recambio", Descripcion: "Filtro", PrecioUnitario: dec("50"), Cantidad: dec("1"), Descuento: dec("0"), TipoIVA: dec("10")},
		},
		Cliente: &model.Cliente{Nombre: "Ana Ruiz"},
	}
	r := Factura(f)
	assert.True(t, r.BaseImponible.Equal(dec("230")))
	assert.True(t, r.TotalIVA.Equal(dec("42.8")))
	assert.True(t, r.Total.Equal(dec("272.8")))
	assert.Equal(t, "Ana Ruiz", r.ClienteNombre)

	require.Len(t, r.Lineas, 2)
	assert.True(t, r.Lineas[0].Total.Equal(dec("217.8")))
	require.Len(t, r.DesgloseIVA, 2)
	assert.True(t, r.DesgloseIVA[0].TipoIVA.Equal(dec("21")))
	assert.True(t, r.DesgloseIVA[0].Cuota.Equal(dec("37.8")))
	assert.True(t, r.DesgloseIVA[1].Cuota.Equal(dec("5")))
}

func TestTotales_Preview(t *testing.T) {
	r := Totales([]dto.LineaFacturaInput{
		{Tipo: "pintura", Descripcion: "Lacado", PrecioUnitario: dec("33.333"), Cantidad: dec("3"), TipoIVA: dec("21")},
	})
	assert.True(t, r.BaseImponible.Equal(dec("100")))
	assert.True(t, r.TotalIVA.Equal(dec("21")))
	assert.True(t, r.Total.Equal(dec("121")))
	require.Len(t, r.Lineas, 1)
	assert.Empty(t, r.Lineas[0].ID)
}

func TestCliente_OpcionalesVacios(t *testing.T) {
	c := Cliente(model.Cliente{
		ID:        uuid.New(),
		Nombre:    "Luis",
		NIF:       "12345678Z",
		Vehiculos: []model.VehiculoCliente{{Matricula: "0000BBB"}},
	})
	assert.Equal(t, "", c.Empresa)
	assert.Equal(t, "", c.Email)
	require.Len(t, c.Vehiculos, 1)
	assert.Equal(t, "0000BBB", c.Vehiculos[0].Matricula)
}

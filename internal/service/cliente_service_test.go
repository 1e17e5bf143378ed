package service

import (
	"context"
	"errors"
	"testing"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClienteFixture() (*clienteService, *stubClientes, model.Taller) {
	taller := model.Taller{ID: uuid.New(), Nombre: "Taller Sur", Activo: true}
	repo := newStubClientes()
	return NewClienteService(repo, newStubTalleres(taller)).(*clienteService), repo, taller
}

func TestCrearCliente_ConVehiculos(t *testing.T) {
	svc, repo, taller := newClienteFixture()

	res, err := svc.Crear(context.Background(), gestorTaller(taller.ID), dto.CrearClienteRequest{
		Nombre:    "Luis Gil",
		NIF:       " 12345678z ",
		Vehiculos: []dto.VehiculoInput{{Matricula: "1234 abc", Marca: "Seat"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678Z", res.NIF)
	require.Len(t, res.Vehiculos, 1)
	assert.Equal(t, "1234ABC", res.Vehiculos[0].Matricula)
	assert.Len(t, repo.rows, 1)
}

func TestCrearCliente_FalloDeVehiculosBorraElCliente(t *testing.T) {
	svc, repo, taller := newClienteFixture()
	repo.errVehiculos = errors.New("timeout")

	_, err := svc.Crear(context.Background(), gestorTaller(taller.ID), dto.CrearClienteRequest{
		Nombre:    "Luis Gil",
		NIF:       "X1",
		Vehiculos: []dto.VehiculoInput{{Matricula: "1234ABC"}},
	})
	require.Error(t, err)
	assert.Empty(t, repo.rows)
	assert.Len(t, repo.borrados, 1)
}

func TestActualizarCliente_FalloDeVehiculosRestaura(t *testing.T) {
	svc, repo, taller := newClienteFixture()
	c := model.Cliente{
		ID: uuid.New(), TallerID: taller.ID, Nombre: "Original", NIF: "A1", Activo: true,
		Vehiculos: []model.VehiculoCliente{{ID: uuid.New(), Matricula: "0000AAA"}},
	}
	repo.rows[c.ID] = c
	repo.errVehiculos = errors.New("timeout")

	_, err := svc.Actualizar(context.Background(), gestorTaller(taller.ID), c.ID, dto.ActualizarClienteRequest{
		Nombre:    "Cambiado",
		NIF:       "B2",
		Vehiculos: []dto.VehiculoInput{{Matricula: "9999ZZZ"}},
	})
	require.Error(t, err)
	got := repo.rows[c.ID]
	assert.Equal(t, "Original", got.Nombre)
	assert.Equal(t, "A1", got.NIF)
	require.Len(t, got.Vehiculos, 1)
	assert.Equal(t, "0000AAA", got.Vehiculos[0].Matricula)
}

func TestCrearCliente_SuperAdminTallerInexistente(t *testing.T) {
	svc, repo, _ := newClienteFixture()
	otro := uuid.NewString()

	_, err := svc.Crear(context.Background(), superAdmin(), dto.CrearClienteRequest{TallerID: &otro, Nombre: "Eva", NIF: "Y2"})
	var verr *ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "taller_id")
	assert.Empty(t, repo.rows)
}

func TestCrearCliente_GestorRedFueraDeSuRed(t *testing.T) {
	svc, _, taller := newClienteFixture()
	id := taller.ID.String()

	_, err := svc.Crear(context.Background(), gestorRed(uuid.New()), dto.CrearClienteRequest{TallerID: &id, Nombre: "Eva", NIF: "Y2"})
	assert.ErrorIs(t, err, ErrSinPermiso)
}

func TestDesactivarYReactivarCliente(t *testing.T) {
	svc, repo, taller := newClienteFixture()
	c := model.Cliente{ID: uuid.New(), TallerID: taller.ID, Nombre: "Eva", Activo: true}
	repo.rows[c.ID] = c
	auth := gestorTaller(taller.ID)

	require.NoError(t, svc.Desactivar(context.Background(), auth, c.ID))
	assert.False(t, repo.rows[c.ID].Activo)

	lista, err := svc.Listar(context.Background(), auth, dto.ClienteFilter{})
	require.NoError(t, err)
	assert.Empty(t, lista)

	require.NoError(t, svc.Reactivar(context.Background(), auth, c.ID))
	assert.True(t, repo.rows[c.ID].Activo)

	assert.ErrorIs(t, svc.Desactivar(context.Background(), gestorTaller(uuid.New()), c.ID), ErrNoEncontrado)
}

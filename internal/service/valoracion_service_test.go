package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"
	"tallerpro/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type valoracionFixture struct {
	svc      *valoracionService
	repo     *stubValoraciones
	usuarios *stubUsuarios
	taller   model.Taller
	red      uuid.UUID
}

func newValoracionFixture(vs ...model.Valoracion) *valoracionFixture {
	red := uuid.New()
	taller := model.Taller{ID: uuid.New(), Nombre: "Taller Norte", RedID: &red, Activo: true}
	f := &valoracionFixture{
		repo:     newStubValoraciones(vs...),
		usuarios: newStubUsuarios(),
		taller:   taller,
		red:      red,
	}
	svc := NewValoracionService(f.repo, &stubComentarios{}, f.usuarios, newStubClientes(), newStubTalleres(taller)).(*valoracionService)
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	f.svc = svc
	return f
}

func (f *valoracionFixture) valorador() uuid.UUID {
	u := &model.Usuario{ID: uuid.New(), Nombre: "Ana", Rol: "GESTOR_TALLER", Activo: true}
	f.usuarios.users[u.ID] = u
	return u.ID
}

func TestTransicionar_AsignarYDesasignar(t *testing.T) {
	tallerID := uuid.New()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID, Matricula: "1234ABC", Estado: "pendiente"}
	f := newValoracionFixture(v)
	u1 := f.valorador()
	auth := gestorTaller(tallerID)

	res, err := f.svc.Transicionar(context.Background(), auth, v.ID, workflow.Asignar(u1))
	require.NoError(t, err)
	assert.True(t, res.Cambio)
	assert.Equal(t, "en_curso", res.Valoracion.Estado)
	require.NotNil(t, res.Valoracion.ValoradorID)
	assert.Equal(t, u1.String(), *res.Valoracion.ValoradorID)

	res, err = f.svc.Transicionar(context.Background(), auth, v.ID, workflow.Desasignar())
	require.NoError(t, err)
	assert.True(t, res.Cambio)
	assert.Equal(t, "pendiente", res.Valoracion.Estado)
	assert.Nil(t, res.Valoracion.ValoradorID)
	assert.Nil(t, f.repo.rows[v.ID].ValoradorID)
}

func TestTransicionar_DesasignarEnFinalizadoNoCambia(t *testing.T) {
	tallerID := uuid.New()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "finalizado"}
	f := newValoracionFixture(v)

	res, err := f.svc.Transicionar(context.Background(), gestorTaller(tallerID), v.ID, workflow.Desasignar())
	require.NoError(t, err)
	assert.False(t, res.Cambio)
	assert.Equal(t, "finalizado", res.Valoracion.Estado)
}

func TestTransicionar_AsignarYaAsignadaNoCambia(t *testing.T) {
	tallerID := uuid.New()
	f := newValoracionFixture()
	u1 := f.valorador()
	u2 := f.valorador()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "en_curso", ValoradorID: &u1}
	f.repo.rows[v.ID] = v

	res, err := f.svc.Transicionar(context.Background(), gestorTaller(tallerID), v.ID, workflow.Asignar(u2))
	require.NoError(t, err)
	assert.False(t, res.Cambio)
	assert.Equal(t, u1.String(), *res.Valoracion.ValoradorID)
}

func TestTransicionar_FalloAlGuardarDevuelveLaAnterior(t *testing.T) {
	tallerID := uuid.New()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "pendiente"}
	f := newValoracionFixture(v)
	u1 := f.valorador()
	f.repo.errWorkflow = errors.New("conexion perdida")

	res, err := f.svc.Transicionar(context.Background(), gestorTaller(tallerID), v.ID, workflow.Asignar(u1))
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Cambio)
	assert.Equal(t, "pendiente", res.Valoracion.Estado)
	assert.Nil(t, res.Valoracion.ValoradorID)
	assert.Equal(t, "pendiente", f.repo.rows[v.ID].Estado)
}

func TestTransicionar_ValoradorInactivo(t *testing.T) {
	tallerID := uuid.New()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "pendiente"}
	f := newValoracionFixture(v)
	u1 := f.valorador()
	f.usuarios.users[u1].Activo = false

	_, err := f.svc.Transicionar(context.Background(), gestorTaller(tallerID), v.ID, workflow.Asignar(u1))
	var verr *ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "valorador_id")
}

func TestTransicionar_FinalizarGuardaFecha(t *testing.T) {
	tallerID := uuid.New()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "en curso"}
	f := newValoracionFixture(v)

	res, err := f.svc.Transicionar(context.Background(), gestorTaller(tallerID), v.ID, workflow.CambiarEstado(workflow.Finalizado))
	require.NoError(t, err)
	assert.True(t, res.Cambio)
	assert.Equal(t, "finalizado", res.Valoracion.Estado)
	assert.NotNil(t, f.repo.rows[v.ID].FinalizadaAt)
}

func TestListar_GestorRedSinTalleres_ListaVacia(t *testing.T) {
	f := newValoracionFixture(model.Valoracion{ID: uuid.New(), TallerID: uuid.New(), Estado: "pendiente"})

	res, err := f.svc.Listar(context.Background(), gestorRed(uuid.New()), dto.ValoracionFilter{})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.NotNil(t, res.Data)
	assert.Zero(t, f.repo.listCalls)
}

func TestListar_GestorTallerSinTaller_ListaVacia(t *testing.T) {
	f := newValoracionFixture(model.Valoracion{ID: uuid.New(), TallerID: uuid.New(), Estado: "pendiente"})
	auth := gestorTaller(uuid.New())
	auth.TallerID = nil

	res, err := f.svc.Listar(context.Background(), auth, dto.ValoracionFilter{})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Zero(t, f.repo.listCalls)
}

func TestListar_GestorRedVeSusTalleres(t *testing.T) {
	f := newValoracionFixture()
	propia := model.Valoracion{ID: uuid.New(), TallerID: f.taller.ID, Estado: "pendiente"}
	ajena := model.Valoracion{ID: uuid.New(), TallerID: uuid.New(), Estado: "pendiente"}
	f.repo.rows[propia.ID] = propia
	f.repo.rows[ajena.ID] = ajena

	res, err := f.svc.Listar(context.Background(), gestorRed(f.red), dto.ValoracionFilter{})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, propia.ID.String(), res.Data[0].ID)
}

func TestListar_FiltroDeTallerAjenoDaListaVacia(t *testing.T) {
	tallerID := uuid.New()
	f := newValoracionFixture(model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "pendiente"})

	res, err := f.svc.Listar(context.Background(), gestorTaller(tallerID), dto.ValoracionFilter{TallerID: uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
}

func TestObtener_FueraDeAlcance(t *testing.T) {
	v := model.Valoracion{ID: uuid.New(), TallerID: uuid.New(), Estado: "pendiente"}
	f := newValoracionFixture(v)

	_, err := f.svc.Obtener(context.Background(), gestorTaller(uuid.New()), v.ID)
	assert.ErrorIs(t, err, ErrNoEncontrado)

	auth := gestorTaller(uuid.New())
	auth.TallerID = nil
	_, err = f.svc.Obtener(context.Background(), auth, v.ID)
	assert.ErrorIs(t, err, ErrSinPermiso)
}

func TestCrear_GestorTallerUsaSuTaller(t *testing.T) {
	f := newValoracionFixture()
	otro := uuid.NewString()

	res, err := f.svc.Crear(context.Background(), gestorTaller(f.taller.ID), dto.CrearValoracionRequest{
		TallerID:           &otro,
		Matricula:          " 1234-abc ",
		FechaMatriculacion: "2019-03-02T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, f.taller.ID.String(), res.TallerID)
	assert.Equal(t, "1234ABC", res.Matricula)
	assert.Equal(t, "pendiente", res.Estado)
	assert.Equal(t, "2019-03-02", res.FechaMatriculacion)
}

func TestCrear_SuperAdminDebeElegirTaller(t *testing.T) {
	f := newValoracionFixture()

	_, err := f.svc.Crear(context.Background(), superAdmin(), dto.CrearValoracionRequest{Matricula: "1234ABC"})
	var verr *ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "taller_id")
	assert.Empty(t, f.repo.rows)
}

func TestTablero_AgrupaPorEstado(t *testing.T) {
	tallerID := uuid.New()
	f := newValoracionFixture(
		model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "Completado"},
		model.Valoracion{ID: uuid.New(), TallerID: tallerID, Estado: "pendiente"},
		model.Valoracion{ID: uuid.New(), TallerID: uuid.New(), Estado: "pendiente"},
	)

	tab, err := f.svc.Tablero(context.Background(), gestorTaller(tallerID))
	require.NoError(t, err)
	require.Len(t, tab.Columnas, 3)
	totales := map[string]int{}
	for _, c := range tab.Columnas {
		totales[c.Estado] = c.Total
	}
	assert.Equal(t, map[string]int{"pendiente": 1, "en_curso": 0, "finalizado": 1}, totales)
}

func TestComentar_TextoVacio(t *testing.T) {
	tallerID := uuid.New()
	v := model.Valoracion{ID: uuid.New(), TallerID: tallerID}
	f := newValoracionFixture(v)

	_, err := f.svc.Comentar(context.Background(), gestorTaller(tallerID), v.ID, "   ", false)
	var verr *ValidacionError
	assert.ErrorAs(t, err, &verr)

	c, err := f.svc.Comentar(context.Background(), gestorTaller(tallerID), v.ID, "Revisado", false)
	require.NoError(t, err)
	assert.Equal(t, "Revisado", c.Texto)
}

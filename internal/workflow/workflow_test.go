package workflow

import (
	"testing"
	"time"

	"tallerpro/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahora = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func valoracion(estado Estado, valorador *uuid.UUID) model.Valoracion {
	return model.Valoracion{ID: uuid.New(), TallerID: uuid.New(), Estado: string(estado), ValoradorID: valorador}
}

func TestAsignar_SinValorador_PasaAEnCurso(t *testing.T) {
	for _, e := range []Estado{Pendiente, EnCurso, Finalizado} {
		u1 := uuid.New()
		next, changed, err := Apply(valoracion(e, nil), Asignar(u1), ahora)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, string(EnCurso), next.Estado, "desde %s", e)
		require.NotNil(t, next.ValoradorID)
		assert.Equal(t, u1, *next.ValoradorID)
		assert.Nil(t, next.FinalizadaAt)
	}
}

func TestAsignar_ConValorador_EsNoOp(t *testing.T) {
	previo := uuid.New()
	v := valoracion(EnCurso, &previo)

	next, changed, err := Apply(v, Asignar(uuid.New()), ahora)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, previo, *next.ValoradorID)
	assert.Equal(t, v, next)
}

func TestAsignar_IDVacio(t *testing.T) {
	_, _, err := Apply(valoracion(Pendiente, nil), Asignar(uuid.Nil), ahora)
	assert.ErrorIs(t, err, ErrAccionInvalida)
}

func TestDesasignar_DesdeEnCurso_VuelveAPendiente(t *testing.T) {
	u := uuid.New()
	next, changed, err := Apply(valoracion(EnCurso, &u), Desasignar(), ahora)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(Pendiente), next.Estado)
	assert.Nil(t, next.ValoradorID)
}

func TestDesasignar_OtrosEstados_NoCambianEstado(t *testing.T) {
	u := uuid.New()
	fin := ahora.Add(-time.Hour)
	v := valoracion(Finalizado, &u)
	v.FinalizadaAt = &fin

	next, changed, err := Apply(v, Desasignar(), ahora)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(Finalizado), next.Estado)
	assert.Nil(t, next.ValoradorID)
	assert.Equal(t, &fin, next.FinalizadaAt)

	next, changed, err = Apply(valoracion(Pendiente, nil), Desasignar(), ahora)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(Pendiente), next.Estado)
}

func TestCambiarEstado_APendiente_LimpiaValorador(t *testing.T) {
	for _, e := range []Estado{Pendiente, EnCurso, Finalizado} {
		u := uuid.New()
		next, _, err := Apply(valoracion(e, &u), CambiarEstado(Pendiente), ahora)
		require.NoError(t, err)
		assert.Nil(t, next.ValoradorID, "desde %s", e)
		assert.Equal(t, string(Pendiente), next.Estado)
	}
}

func TestCambiarEstado_AFinalizado_SellaFecha(t *testing.T) {
	u := uuid.New()
	next, changed, err := Apply(valoracion(EnCurso, &u), CambiarEstado(Finalizado), ahora)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(Finalizado), next.Estado)
	require.NotNil(t, next.FinalizadaAt)
	assert.True(t, next.FinalizadaAt.Equal(ahora))
	assert.Equal(t, u, *next.ValoradorID)
}

func TestCambiarEstado_FinalizadoDosVeces_ConservaFecha(t *testing.T) {
	fin := ahora.Add(-48 * time.Hour)
	v := valoracion(Finalizado, nil)
	v.FinalizadaAt = &fin

	next, changed, err := Apply(v, CambiarEstado(Finalizado), ahora)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, next.FinalizadaAt.Equal(fin))
}

func TestCambiarEstado_SalirDeFinalizado(t *testing.T) {
	fin := ahora.Add(-time.Hour)
	v := valoracion(Finalizado, nil)
	v.FinalizadaAt = &fin

	next, changed, err := Apply(v, CambiarEstado(EnCurso), ahora)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(EnCurso), next.Estado)
	assert.Nil(t, next.FinalizadaAt)
}

func TestCambiarEstado_Invalido(t *testing.T) {
	_, _, err := Apply(valoracion(Pendiente, nil), CambiarEstado("archivado"), ahora)
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestSiniestroTotal_UnaSolaVez(t *testing.T) {
	v := valoracion(EnCurso, nil)
	next, changed, err := Apply(v, MarcarSiniestroTotal(), ahora)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, next.SiniestroTotal)
	assert.Equal(t, string(EnCurso), next.Estado)

	again, changed, err := Apply(next, MarcarSiniestroTotal(), ahora)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, again.SiniestroTotal)
}

func TestApply_NoModificaEntrada(t *testing.T) {
	v := valoracion(Pendiente, nil)
	_, _, err := Apply(v, Asignar(uuid.New()), ahora)
	require.NoError(t, err)
	assert.Nil(t, v.ValoradorID)
	assert.Equal(t, string(Pendiente), v.Estado)
}

func TestApply_AccionDesconocida(t *testing.T) {
	_, _, err := Apply(valoracion(Pendiente, nil), Accion{}, ahora)
	assert.ErrorIs(t, err, ErrAccionInvalida)
}

// Scenario: assign then unassign round trip.
func TestAsignarYDesasignar(t *testing.T) {
	u1 := uuid.New()
	v := valoracion(Pendiente, nil)

	v, _, err := Apply(v, Asignar(u1), ahora)
	require.NoError(t, err)
	assert.Equal(t, string(EnCurso), v.Estado)
	assert.Equal(t, u1, *v.ValoradorID)

	v, _, err = Apply(v, Desasignar(), ahora)
	require.NoError(t, err)
	assert.Equal(t, string(Pendiente), v.Estado)
	assert.Nil(t, v.ValoradorID)
}

func TestApply_EstadoLegadoSeNormaliza(t *testing.T) {
	v := valoracion("Terminado", nil)
	next, _, err := Apply(v, Desasignar(), ahora)
	require.NoError(t, err)
	assert.Equal(t, string(Finalizado), next.Estado)
}

func TestNormalizar(t *testing.T) {
	cases := map[string]Estado{
		"Completado":    Finalizado,
		"Terminado":     Finalizado,
		"finalizado":    Finalizado,
		" Finalizado ":  Finalizado,
		"FINALIZADA":    Finalizado,
		"en_curso":      EnCurso,
		"En curso":      EnCurso,
		"en  proceso":   EnCurso,
		"EN-CURSO":      EnCurso,
		"Asignado":      EnCurso,
		"pendiente":     Pendiente,
		"":              Pendiente,
		"otra cosa":     Pendiente,
		"  Pendiénte  ": Pendiente,
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalizar(in), "input %q", in)
	}
}

func TestNormalizar_IgnoraTildes(t *testing.T) {
	assert.Equal(t, Finalizado, Normalizar("Terminádo"))
	assert.Equal(t, EnCurso, Normalizar("Ásignada"))
}

func TestDescripcion(t *testing.T) {
	assert.Equal(t, "Estado cambiado a en curso por Ana", Descripcion(CambiarEstado(EnCurso), "Ana"))
	assert.Contains(t, Descripcion(Asignar(uuid.New()), "Ana"), "asignado")
}

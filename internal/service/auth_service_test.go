package service

import (
	"context"
	"testing"
	"time"

	"tallerpro/internal/config"
	"tallerpro/internal/dto"
	"tallerpro/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*authService, *stubUsuarios, *model.Usuario) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	taller := uuid.New()
	u := &model.Usuario{
		ID: uuid.New(), Email: "gestor@taller.es", Nombre: "Gestor", PasswordHash: string(hash),
		Rol: "GESTOR_TALLER", TallerID: &taller, Activo: true,
	}
	repo := newStubUsuarios(u)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8, JWTRefreshHours: 24}
	return NewAuthService(repo, cfg).(*authService), repo, u
}

func claimsDe(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	return parsed.Claims.(jwt.MapClaims)
}

func TestLogin_EmailSinDistinguirMayusculas(t *testing.T) {
	svc, _, u := newAuthFixture(t)

	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: " Gestor@Taller.es", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, 8*3600, res.ExpiresIn)

	c := claimsDe(t, res.AccessToken)
	assert.Equal(t, u.ID.String(), c["user_id"])
	assert.Equal(t, "GESTOR_TALLER", c["rol"])
	assert.Equal(t, u.TallerID.String(), c["taller_id"])
	assert.Equal(t, "access", c["typ"])
	assert.NotContains(t, c, "red_id")
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "gestor@taller.es", Password: "otra"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nadie@taller.es", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestRefresh(t *testing.T) {
	svc, repo, u := newAuthFixture(t)
	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: "secreto123"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), res.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalido)

	nuevo, err := svc.Refresh(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, nuevo.AccessToken)

	repo.users[u.ID].Activo = false
	_, err = svc.Refresh(context.Background(), res.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestRefresh_Expirado(t *testing.T) {
	svc, _, u := newAuthFixture(t)
	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: "secreto123"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = svc.Refresh(context.Background(), res.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestCrearUsuario_AmbitoDelRol(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Email: "nuevo@taller.es", Nombre: "Nuevo", Password: "12345678", Rol: "GESTOR_TALLER",
	})
	var verr *ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "taller_id")

	_, err = svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Email: "GESTOR@taller.es", Nombre: "Dup", Password: "12345678", Rol: "SUPER_ADMIN",
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	red := uuid.NewString()
	res, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Email: "Red@Taller.es", Nombre: "Red", Password: "12345678", Rol: "GESTOR_RED", RedID: &red,
	})
	require.NoError(t, err)
	assert.Equal(t, "red@taller.es", res.Email)
	assert.Equal(t, red, *res.RedID)
	assert.Len(t, repo.users, 2)
}

func TestDesactivarUsuario(t *testing.T) {
	svc, repo, u := newAuthFixture(t)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))
	assert.False(t, repo.users[u.ID].Activo)
	require.NoError(t, svc.ReactivarUsuario(context.Background(), u.ID))
	assert.True(t, repo.users[u.ID].Activo)
	assert.ErrorIs(t, svc.DesactivarUsuario(context.Background(), uuid.New()), ErrNoEncontrado)
}

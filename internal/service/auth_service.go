package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tallerpro/internal/config"
	"tallerpro/internal/dto"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrTokenInvalido         = errors.New("refresh token invalido o expirado")
)

const (
	tokenAcceso  = "access"
	tokenRefresh = "refresh"
	bcryptCost   = 12
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizarEmail(req.Email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}
	return s.sesion(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != tokenRefresh {
		return nil, ErrTokenInvalido
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrTokenInvalido
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, ErrTokenInvalido
	}
	return s.sesion(user)
}

// sesion issues a fresh access/refresh pair; claims always reflect the
// current user row.
func (s *authService) sesion(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, tokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, tokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         viewmodel.Usuario(*user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"nombre":  user.Nombre,
		"rol":     user.Rol,
		"typ":     tipo,
		"exp":     now.Add(duration).Unix(),
		"iat":     now.Unix(),
	}
	if user.TallerID != nil {
		claims["taller_id"] = user.TallerID.String()
	}
	if user.RedID != nil {
		claims["red_id"] = user.RedID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func normalizarEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func parseOpcional(raw *string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}

// validarAmbito checks that the role carries the id its scope is built from.
func validarAmbito(u *model.Usuario) error {
	rol, ok := scope.ParseRol(u.Rol)
	if !ok {
		return validacion("rol", "Rol invalido")
	}
	u.Rol = string(rol)
	switch rol {
	case scope.GestorTaller:
		if u.TallerID == nil {
			return validacion("taller_id", "Un gestor de taller necesita taller")
		}
	case scope.GestorRed:
		if u.RedID == nil {
			return validacion("red_id", "Un gestor de red necesita red")
		}
	}
	return nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	email := normalizarEmail(req.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, validacion("email", "Ya existe un usuario con ese email")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Email:        email,
		Nombre:       strings.TrimSpace(req.Nombre),
		PasswordHash: string(hash),
		Rol:          req.Rol,
		TallerID:     parseOpcional(req.TallerID),
		RedID:        parseOpcional(req.RedID),
		Activo:       true,
	}
	if err := validarAmbito(user); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("usuario_id", user.ID.String()).Str("rol", user.Rol).Msg("usuario creado")
	resp := viewmodel.Usuario(*user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i, u := range users {
		resp[i] = viewmodel.Usuario(u)
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "usuario")
	}
	if req.Nombre != "" {
		user.Nombre = strings.TrimSpace(req.Nombre)
	}
	if req.Rol != "" {
		user.Rol = req.Rol
	}
	if req.TallerID != nil {
		user.TallerID = parseOpcional(req.TallerID)
	}
	if req.RedID != nil {
		user.RedID = parseOpcional(req.RedID)
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := validarAmbito(user); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := viewmodel.Usuario(*user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActivo(ctx, id, false); err != nil {
		return noEncontrado(err, "usuario")
	}
	return nil
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActivo(ctx, id, true); err != nil {
		return noEncontrado(err, "usuario")
	}
	return nil
}

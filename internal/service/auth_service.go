package service

import (
	"context"
	"errors"
	"time"

	"camher/internal/apierror"
	"camher/internal/config"
	"camher/internal/dto"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// Registro creates an unapproved profile. The account can log in but the
	// engine rejects every operation until an administrator approves it.
	Registro(ctx context.Context, req dto.RegistroRequest) (*dto.PerfilResponse, error)
	ListarPerfiles(ctx context.Context) ([]dto.PerfilResponse, error)
	AprobarPerfil(ctx context.Context, id uuid.UUID) (*dto.PerfilResponse, error)
	DesactivarPerfil(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	perfiles    repository.PerfilRepository
	notificador Notificador
	cfg         *config.Config
}

func NewAuthService(perfiles repository.PerfilRepository, notificador Notificador, cfg *config.Config) AuthService {
	return &authService{perfiles: perfiles, notificador: notificador, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	perfil, err := s.perfiles.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if !perfil.Activo {
		return nil, errors.New("credenciales invalidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(perfil.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	return s.tokens(perfil)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	perfil, err := s.perfiles.FindByID(ctx, uid)
	if err != nil || !perfil.Activo {
		return nil, errors.New("usuario no encontrado o inactivo")
	}
	return s.tokens(perfil)
}

func (s *authService) Registro(ctx context.Context, req dto.RegistroRequest) (*dto.PerfilResponse, error) {
	if !model.RolValido(req.Rol) {
		return nil, apierror.Validacion("rol", "rol desconocido")
	}
	if _, err := s.perfiles.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Validacion("email", "el correo ya está registrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	perfil := &model.Perfil{
		ID:           uuid.New(),
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Aprobado:     false,
		Activo:       true,
	}
	if err := s.perfiles.Create(ctx, perfil); err != nil {
		return nil, apierror.Dependencia("no se pudo registrar el perfil", err)
	}

	s.notificador.NotificarVerificacion(ctx, perfil.Email)

	resp := perfilResponse(perfil)
	return &resp, nil
}

func (s *authService) ListarPerfiles(ctx context.Context) ([]dto.PerfilResponse, error) {
	perfiles, err := s.perfiles.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PerfilResponse, len(perfiles))
	for i := range perfiles {
		resp[i] = perfilResponse(&perfiles[i])
	}
	return resp, nil
}

func (s *authService) AprobarPerfil(ctx context.Context, id uuid.UUID) (*dto.PerfilResponse, error) {
	if err := s.perfiles.Aprobar(ctx, id); err != nil {
		return nil, apierror.Dependencia("no se pudo aprobar el perfil", err)
	}
	perfil, err := s.perfiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := perfilResponse(perfil)
	return &resp, nil
}

func (s *authService) DesactivarPerfil(ctx context.Context, id uuid.UUID) error {
	return s.perfiles.Desactivar(ctx, id)
}

func (s *authService) tokens(perfil *model.Perfil) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(perfil, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(perfil, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         perfilResponse(perfil),
	}, nil
}

func (s *authService) generateToken(perfil *model.Perfil, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  perfil.ID.String(),
		"email":    perfil.Email,
		"rol":      perfil.Rol,
		"aprobado": perfil.Aprobado,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func perfilResponse(p *model.Perfil) dto.PerfilResponse {
	return dto.PerfilResponse{
		ID:       p.ID.String(),
		Nombre:   p.Nombre,
		Email:    p.Email,
		Rol:      p.Rol,
		Aprobado: p.Aprobado,
		Activo:   p.Activo,
	}
}

package service

import (
	"context"
	"testing"

	"camher/internal/apierror"
	"camher/internal/config"
	"camher/internal/dto"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// stubPerfilRepo is an in-memory PerfilRepository.
type stubPerfilRepo struct {
	perfiles map[uuid.UUID]*model.Perfil
}

func newStubPerfilRepo() *stubPerfilRepo {
	return &stubPerfilRepo{perfiles: make(map[uuid.UUID]*model.Perfil)}
}

func (r *stubPerfilRepo) Create(_ context.Context, p *model.Perfil) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.perfiles[p.ID] = p
	return nil
}

func (r *stubPerfilRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Perfil, error) {
	p, ok := r.perfiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPerfilRepo) FindByEmail(_ context.Context, email string) (*model.Perfil, error) {
	for _, p := range r.perfiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPerfilRepo) List(_ context.Context) ([]model.Perfil, error) {
	var out []model.Perfil
	for _, p := range r.perfiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPerfilRepo) EmailsPorRol(_ context.Context, rol string) ([]string, error) {
	var out []string
	for _, p := range r.perfiles {
		if p.Rol == rol && p.Aprobado && p.Activo {
			out = append(out, p.Email)
		}
	}
	return out, nil
}

func (r *stubPerfilRepo) Aprobar(_ context.Context, id uuid.UUID) error {
	p, ok := r.perfiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Aprobado = true
	return nil
}

func (r *stubPerfilRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.perfiles[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.PerfilRepository = (*stubPerfilRepo)(nil)

func cfgPruebas() *config.Config {
	return &config.Config{
		JWTSecret:          "secreto-de-pruebas",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func nuevoAuth(t *testing.T) (AuthService, *stubPerfilRepo, *stubNotificador) {
	t.Helper()
	perfiles := newStubPerfilRepo()
	notificador := &stubNotificador{}
	return NewAuthService(perfiles, notificador, cfgPruebas()), perfiles, notificador
}

func seedPerfil(t *testing.T, repo *stubPerfilRepo, email, password, rol string, aprobado bool) *model.Perfil {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	p := &model.Perfil{
		ID:           uuid.New(),
		Nombre:       "Cuenta de prueba",
		Email:        email,
		PasswordHash: string(hash),
		Rol:          rol,
		Aprobado:     aprobado,
		Activo:       true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestLogin_Correcto(t *testing.T) {
	svc, perfiles, _ := nuevoAuth(t)
	seedPerfil(t, perfiles, "taller@camher.mx", "clave123", model.RolTaller, true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "taller@camher.mx", Password: "clave123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolTaller, resp.User.Rol)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	svc, perfiles, _ := nuevoAuth(t)
	seedPerfil(t, perfiles, "taller@camher.mx", "clave123", model.RolTaller, true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "taller@camher.mx", Password: "otra"})
	assert.EqualError(t, err, "credenciales invalidas")

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nadie@camher.mx", Password: "clave123"})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	svc, perfiles, _ := nuevoAuth(t)
	p := seedPerfil(t, perfiles, "ex@camher.mx", "clave123", model.RolContador, true)
	require.NoError(t, perfiles.Desactivar(context.Background(), p.ID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ex@camher.mx", Password: "clave123"})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestLogin_SinAprobarPuedeEntrar(t *testing.T) {
	// Una cuenta sin aprobar inicia sesión; es el motor quien le niega operar.
	svc, perfiles, _ := nuevoAuth(t)
	seedPerfil(t, perfiles, "nuevo@prov.mx", "clave123", model.RolProveedor, false)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nuevo@prov.mx", Password: "clave123"})
	require.NoError(t, err)
	assert.False(t, resp.User.Aprobado)
}

func TestRefresh_RenuevaTokens(t *testing.T) {
	svc, perfiles, _ := nuevoAuth(t)
	seedPerfil(t, perfiles, "admin@camher.mx", "clave123", model.RolAdmin, true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@camher.mx", Password: "clave123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "admin@camher.mx", resp.User.Email)
}

func TestRefresh_TokenBasura(t *testing.T) {
	svc, _, _ := nuevoAuth(t)
	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}

func TestRegistro_CreaSinAprobar(t *testing.T) {
	svc, _, notificador := nuevoAuth(t)

	resp, err := svc.Registro(context.Background(), dto.RegistroRequest{
		Nombre:   "Proveedor Nuevo",
		Email:    "alta@prov.mx",
		Password: "clave123",
		Rol:      model.RolProveedor,
	})
	require.NoError(t, err)
	assert.False(t, resp.Aprobado)
	assert.True(t, resp.Activo)

	// Se emitió la notificación de verificación.
	require.Len(t, notificador.verificaciones, 1)
	assert.Equal(t, "alta@prov.mx", notificador.verificaciones[0])
}

func TestRegistro_RolDesconocido(t *testing.T) {
	svc, _, _ := nuevoAuth(t)
	_, err := svc.Registro(context.Background(), dto.RegistroRequest{
		Nombre: "X", Email: "x@x.mx", Password: "clave123", Rol: "gerente",
	})
	assert.True(t, apierror.EsKind(err, apierror.KindValidacion))
}

func TestRegistro_EmailDuplicado(t *testing.T) {
	svc, perfiles, _ := nuevoAuth(t)
	seedPerfil(t, perfiles, "dup@camher.mx", "clave123", model.RolTaller, true)

	_, err := svc.Registro(context.Background(), dto.RegistroRequest{
		Nombre: "Duplicado", Email: "dup@camher.mx", Password: "clave123", Rol: model.RolTaller,
	})
	assert.True(t, apierror.EsKind(err, apierror.KindValidacion))
}

func TestAprobarPerfil(t *testing.T) {
	svc, perfiles, _ := nuevoAuth(t)
	p := seedPerfil(t, perfiles, "pendiente@prov.mx", "clave123", model.RolProveedor, false)

	resp, err := svc.AprobarPerfil(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, resp.Aprobado)
}

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/revendehq/revende_api/internal/middleware"
	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/repository"
	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

// In-memory repositories backing the handler tests.

type memUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]*models.User{}, nextID: 1}
}

func (m *memUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUserRepo) GetByHandle(_ context.Context, handle string) (*models.User, error) {
	for _, u := range m.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *memUserRepo) ExistsByHandle(_ context.Context, handle string) (bool, error) {
	_, err := m.GetByHandle(context.Background(), handle)
	return err == nil, nil
}

func (m *memUserRepo) ExistsByCedula(_ context.Context, cedula string) (bool, error) {
	for _, u := range m.users {
		if u.Cedula == cedula {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) UpdatePerfil(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) UpdateFotoURL(_ context.Context, id int, fotoURL string) error {
	if u, ok := m.users[id]; ok {
		u.FotoURL = fotoURL
	}
	return nil
}

type memPedidoRepo struct {
	pedidos map[int]*models.Pedido
	nextID  int
}

func newMemPedidoRepo() *memPedidoRepo {
	return &memPedidoRepo{pedidos: map[int]*models.Pedido{}, nextID: 1}
}

func (m *memPedidoRepo) CreateWithLineas(_ context.Context, pedido *models.Pedido, lineas []models.Linea) error {
	pedido.ID = m.nextID
	m.nextID++
	pedido.Lineas = lineas
	cp := *pedido
	m.pedidos[pedido.ID] = &cp
	return nil
}

func (m *memPedidoRepo) GetByID(_ context.Context, id int) (*models.Pedido, error) {
	if p, ok := m.pedidos[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, utils.ErrPedidoNotFound
}

func (m *memPedidoRepo) ListByUser(_ context.Context, userID int) ([]models.Pedido, error) {
	var out []models.Pedido
	for _, p := range m.pedidos {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPedidoRepo) SetStatus(_ context.Context, id, userID int, from, to models.PedidoStatus) (*models.Pedido, error) {
	p, ok := m.pedidos[id]
	if !ok || p.UserID != userID {
		return nil, utils.ErrPedidoNotFound
	}
	if p.Status != from {
		return nil, utils.ErrInvalidTransition
	}
	p.Status = to
	cp := *p
	return &cp, nil
}

type memGamificationRepo struct {
	pedidos *memPedidoRepo
	levels  map[int]*models.UserLevel
	points  map[int]int64
}

func newMemGamificationRepo(pedidos *memPedidoRepo) *memGamificationRepo {
	return &memGamificationRepo{pedidos: pedidos, levels: map[int]*models.UserLevel{}, points: map[int]int64{}}
}

func (m *memGamificationRepo) EnsureLevel(_ context.Context, userID int, defaultNivel string) (*models.UserLevel, error) {
	if l, ok := m.levels[userID]; ok {
		return l, nil
	}
	l := &models.UserLevel{UserID: userID, Nivel: defaultNivel}
	m.levels[userID] = l
	return l, nil
}

func (m *memGamificationRepo) SumPoints(_ context.Context, userID int) (int64, error) {
	return m.points[userID], nil
}

func (m *memGamificationRepo) CountConsolidaciones(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func (m *memGamificationRepo) ApplyCompletion(_ context.Context, fx repository.CompletionEffects) error {
	p, ok := m.pedidos.pedidos[fx.PedidoID]
	if !ok || p.UserID != fx.UserID || p.Status != models.PedidoPendiente {
		return utils.ErrInvalidTransition
	}
	p.Status = models.PedidoCompletado
	m.points[fx.UserID] += int64(fx.Puntos)
	level := m.levels[fx.UserID]
	level.XP += fx.XPGain
	level.VentasTotales++
	level.Nivel = fx.Nivel
	return nil
}

func (m *memGamificationRepo) Diagnostics(_ context.Context) (*repository.DiagnosticCounts, error) {
	return &repository.DiagnosticCounts{}, nil
}

type memBadgeRepo struct{}

func (memBadgeRepo) ListAll(_ context.Context) ([]models.Badge, error)  { return nil, nil }
func (memBadgeRepo) SeedBySlug(_ context.Context, _ []models.Badge) (int, error) {
	return 0, nil
}
func (memBadgeRepo) UnlockedByUser(_ context.Context, _ int) ([]models.UserBadge, error) {
	return nil, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	userRepo := newMemUserRepo()
	pedidoRepo := newMemPedidoRepo()
	gamRepo := newMemGamificationRepo(pedidoRepo)

	authSvc := service.NewAuthService(userRepo)
	gamSvc := service.NewGamificationService(gamRepo, memBadgeRepo{})
	pedidoSvc := service.NewPedidoService(pedidoRepo, userRepo, gamSvc)

	authHandler := NewAuthHandler(authSvc, middleware.NewInvalidAuthRateLimiter())
	pedidoHandler := NewPedidoHandler(pedidoSvc)
	gamHandler := NewGamificationHandler(gamSvc)

	r := gin.New()
	r.POST("/api/auth/registro", authHandler.Registro)
	r.POST("/api/auth/login", authHandler.Login)

	api := r.Group("/api")
	api.Use(middleware.NewJWTMiddleware().Handle())
	{
		api.POST("/pedidos", pedidoHandler.Crear)
		api.GET("/pedidos", pedidoHandler.Listar)
		api.PUT("/pedidos/:id/status", pedidoHandler.CambiarStatus)
		api.PATCH("/pedidos/:id/status", pedidoHandler.CambiarStatus) // legacy alias
		api.GET("/gamification/stats", gamHandler.Stats)
	}
	return r
}

func httpDo(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func registroBody(email, handle, cedula string) map[string]interface{} {
	return map[string]interface{}{
		"email":    email,
		"password": "super-secret-1",
		"nombre":   "Ana",
		"handle":   handle,
		"cedula":   cedula,
	}
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := httpDo(r, "POST", "/api/auth/registro", "", registroBody("ana@example.com", "ana", "123"))
	require.Equal(t, 201, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegistroDuplicatesReturnDistinctErrors(t *testing.T) {
	r := setupRouter(t)

	w := httpDo(r, "POST", "/api/auth/registro", "", registroBody("ana@example.com", "ana", "123"))
	require.Equal(t, 201, w.Code)

	w = httpDo(r, "POST", "/api/auth/registro", "", registroBody("ana@example.com", "otra", "999"))
	require.Equal(t, 400, w.Code)
	require.Equal(t, "EMAIL_TAKEN", decode(t, w).Error.Code)

	w = httpDo(r, "POST", "/api/auth/registro", "", registroBody("otra@example.com", "ana", "999"))
	require.Equal(t, 400, w.Code)
	require.Equal(t, "HANDLE_TAKEN", decode(t, w).Error.Code)

	w = httpDo(r, "POST", "/api/auth/registro", "", registroBody("otra@example.com", "otra", "123"))
	require.Equal(t, 400, w.Code)
	require.Equal(t, "CEDULA_TAKEN", decode(t, w).Error.Code)
}

func TestLoginFailuresAreAmbiguous(t *testing.T) {
	r := setupRouter(t)
	registerAndLogin(t, r)

	w := httpDo(r, "POST", "/api/auth/login", "", map[string]string{
		"email": "nadie@example.com", "password": "whatever-123",
	})
	require.Equal(t, 401, w.Code)
	require.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Error.Code)

	w = httpDo(r, "POST", "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	})
	require.Equal(t, 401, w.Code)
	require.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Error.Code)
}

func TestPedidosRequireAuth(t *testing.T) {
	r := setupRouter(t)

	w := httpDo(r, "POST", "/api/pedidos", "", map[string]interface{}{})
	require.Equal(t, 401, w.Code)

	w = httpDo(r, "POST", "/api/pedidos", "not-a-token", map[string]interface{}{})
	require.Equal(t, 401, w.Code)
}

func pedidoBody() map[string]interface{} {
	return map[string]interface{}{
		"clienteNombre":   "Carlos",
		"clienteTelefono": "3001112233",
		"lineas": []map[string]interface{}{
			{"productoId": 111, "varianteId": 1, "nombreProducto": "Camiseta",
				"cantidad": 1, "precioMayorista": 20000, "precioVenta": 26000},
		},
	}
}

func TestCrearPedidoValidationMatrix(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r)

	body := pedidoBody()
	delete(body, "clienteNombre")
	w := httpDo(r, "POST", "/api/pedidos", token, body)
	require.Equal(t, 400, w.Code)
	require.Equal(t, "MISSING_CLIENTE", decode(t, w).Error.Code)

	body = pedidoBody()
	body["lineas"] = []map[string]interface{}{}
	w = httpDo(r, "POST", "/api/pedidos", token, body)
	require.Equal(t, 400, w.Code)
	require.Equal(t, "EMPTY_LINEAS", decode(t, w).Error.Code)

	body = pedidoBody()
	body["lineas"].([]map[string]interface{})[0]["cantidad"] = 0
	w = httpDo(r, "POST", "/api/pedidos", token, body)
	require.Equal(t, 400, w.Code)
	require.Equal(t, "INVALID_LINEA", decode(t, w).Error.Code)
}

func TestPedidoLifecycleOverHTTP(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r)

	w := httpDo(r, "POST", "/api/pedidos", token, pedidoBody())
	require.Equal(t, 201, w.Code)

	var pedido models.Pedido
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &pedido))
	require.Equal(t, models.PedidoPendiente, pedido.Status, "new pedidos start pendiente")

	path := fmt.Sprintf("/api/pedidos/%d/status", pedido.ID)
	w = httpDo(r, "PUT", path, token, map[string]string{"status": "completado"})
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &pedido))
	require.Equal(t, models.PedidoCompletado, pedido.Status)

	// Completing twice conflicts. The PATCH alias hits the same handler.
	w = httpDo(r, "PATCH", path, token, map[string]string{"status": "completado"})
	require.Equal(t, 409, w.Code)
	require.Equal(t, "INVALID_TRANSITION", decode(t, w).Error.Code)

	// Unknown pedido is a 404.
	w = httpDo(r, "PUT", "/api/pedidos/9999/status", token, map[string]string{"status": "completado"})
	require.Equal(t, 404, w.Code)
}

func TestLoginRateLimitOnlyCountsInvalidAttempts(t *testing.T) {
	r := setupRouter(t)
	registerAndLogin(t, r)

	good := map[string]string{"email": "ana@example.com", "password": "super-secret-1"}
	bad := map[string]string{"email": "ana@example.com", "password": "wrong-password"}

	// Correct credentials never consume the per-IP budget, no matter how
	// many times they log in within the window.
	for i := 0; i < 8; i++ {
		w := httpDo(r, "POST", "/api/auth/login", "", good)
		require.Equal(t, 200, w.Code, "valid login %d must not be throttled", i+1)
	}

	// Five invalid attempts get the ambiguous 401.
	for i := 0; i < 5; i++ {
		w := httpDo(r, "POST", "/api/auth/login", "", bad)
		require.Equal(t, 401, w.Code)
		require.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Error.Code)
	}

	// The sixth invalid attempt within the window is throttled.
	w := httpDo(r, "POST", "/api/auth/login", "", bad)
	require.Equal(t, 429, w.Code)
	require.Equal(t, "TOO_MANY_ATTEMPTS", decode(t, w).Error.Code)

	// Correct credentials still work even while the IP is throttled for
	// invalid attempts.
	w = httpDo(r, "POST", "/api/auth/login", "", good)
	require.Equal(t, 200, w.Code)
}

func TestFreshGamificationStatsAreZero(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r)

	w := httpDo(r, "GET", "/api/gamification/stats", token, nil)
	require.Equal(t, 200, w.Code)

	var stats struct {
		Level struct {
			Nivel      string `json:"nivel"`
			CurrentXP  int64  `json:"currentXP"`
			TotalSales int    `json:"totalSales"`
		} `json:"level"`
		TotalPoints int64 `json:"totalPoints"`
		Unlocked    int   `json:"unlockedCount"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	require.Equal(t, "bronce", stats.Level.Nivel)
	require.Zero(t, stats.Level.CurrentXP)
	require.Zero(t, stats.Level.TotalSales)
	require.Zero(t, stats.TotalPoints)
	require.Zero(t, stats.Unlocked)
}

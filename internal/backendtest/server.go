// Package backendtest runs an in-process stand-in for the NAAI backend so
// client tests can exercise the real HTTP path: bearer-token auth, the
// {"error": msg} envelope, and the shop endpoints. It is test
// infrastructure, not a production server.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/naai-app/naai/internal/core/domain"
)

const tokenTTL = time.Hour

type account struct {
	user         domain.User
	passwordHash []byte
}

// Server is the fake backend. All state lives in memory behind one mutex.
type Server struct {
	srv    *httptest.Server
	secret string

	mu     sync.Mutex
	users  map[string]*account     // keyed by email
	byID   map[string]*account     // keyed by user id
	shops  map[string]*domain.Shop // keyed by shop id
	owners map[string]string       // shop id -> owner user id
	nextID int
}

// New starts the stub server. Callers must Close it when done.
func New() *Server {
	s := &Server{
		secret: "backendtest-secret",
		users:  make(map[string]*account),
		byID:   make(map[string]*account),
		shops:  make(map[string]*domain.Shop),
		owners: make(map[string]string),
	}

	e := echo.New()
	e.HideBanner = true

	e.POST("/auth/signup", s.handleSignup)
	e.POST("/auth/login", s.handleLogin)
	e.GET("/auth/me", s.requireAuth(s.handleMe))
	e.GET("/shops", s.handleListShops)
	e.POST("/shops", s.requireAuth(s.handleCreateShop))
	e.PUT("/shops/:id", s.requireAuth(s.handleUpdateShop))
	e.POST("/shops/:id/services", s.requireAuth(s.handleAddService))
	e.GET("/barber/shop", s.requireAuth(s.handleMyShop))

	s.srv = httptest.NewServer(e)
	return s
}

// URL is the base URL clients should point at.
func (s *Server) URL() string { return s.srv.URL }

func (s *Server) Close() { s.srv.Close() }

// Seed creates an account directly, bypassing the signup endpoint. Returns
// the created user.
func (s *Server) Seed(email, password, name string, role domain.Role) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccountLocked(email, password, name, role)
}

// IssueToken mints a valid token for a seeded account, as a previous login
// would have. Panics on an unknown email: that is a test bug.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[email]
	if !ok {
		panic("backendtest: IssueToken for unknown email " + email)
	}
	return s.mintLocked(acct.user)
}

func (s *Server) addAccountLocked(email, password, name string, role domain.Role) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.nextID++
	user := domain.User{
		ID:        fmt.Sprintf("u_%d", s.nextID),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	acct := &account{user: user, passwordHash: hash}
	s.users[email] = acct
	s.byID[user.ID] = acct
	return user
}

func (s *Server) mintLocked(user domain.User) string {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.secret))
	if err != nil {
		panic(err)
	}
	return signed
}

// --- Handlers ---

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid role")
	}
	if req.Email == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		return errJSON(c, http.StatusConflict, "user already exists")
	}
	user := s.addAccountLocked(req.Email, req.Password, req.Name, role)
	return c.JSON(http.StatusCreated, sessionResponse{Token: s.mintLocked(user), User: user})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[req.Email]
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid email or password")
	}
	return c.JSON(http.StatusOK, sessionResponse{Token: s.mintLocked(acct.user), User: acct.user})
}

// requireAuth validates the bearer token and injects the account into the
// context, mirroring the real backend's middleware.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return errJSON(c, http.StatusUnauthorized, "missing bearer token")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return errJSON(c, http.StatusUnauthorized, "invalid token")
		}

		sub, _ := claims["sub"].(string)
		s.mu.Lock()
		acct, ok := s.byID[sub]
		s.mu.Unlock()
		if !ok {
			return errJSON(c, http.StatusUnauthorized, "unknown account")
		}

		c.Set("account", acct)
		return next(c)
	}
}

func currentUser(c echo.Context) domain.User {
	return c.Get("account").(*account).user
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]domain.User{"user": currentUser(c)})
}

func (s *Server) handleListShops(c echo.Context) error {
	search := strings.ToLower(c.QueryParam("search"))
	city := strings.ToLower(c.QueryParam("city"))

	s.mu.Lock()
	defer s.mu.Unlock()
	shops := make([]domain.Shop, 0, len(s.shops))
	for _, shop := range s.shops {
		if city != "" && strings.ToLower(shop.City) != city {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(shop.Name + " " + shop.Description + " " + shop.City)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		shops = append(shops, *shop)
	}
	return c.JSON(http.StatusOK, map[string][]domain.Shop{"shops": shops})
}

func (s *Server) handleCreateShop(c echo.Context) error {
	user := currentUser(c)
	if user.Role != domain.RoleBarber {
		return errJSON(c, http.StatusForbidden, "only barbers can create shops")
	}

	var shop domain.Shop
	if err := c.Bind(&shop); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if shop.Name == "" {
		return errJSON(c, http.StatusBadRequest, "name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.shopOfLocked(user.ID); existing != nil {
		return errJSON(c, http.StatusConflict, "shop already exists")
	}
	s.nextID++
	shop.ID = fmt.Sprintf("s_%d", s.nextID)
	for i := range shop.Services {
		s.nextID++
		shop.Services[i].ID = fmt.Sprintf("svc_%d", s.nextID)
	}
	s.shops[shop.ID] = &shop
	s.owners[shop.ID] = user.ID
	return c.JSON(http.StatusCreated, map[string]domain.Shop{"shop": shop})
}

func (s *Server) handleUpdateShop(c echo.Context) error {
	user := currentUser(c)
	id := c.Param("id")

	var in domain.Shop
	if err := c.Bind(&in); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	if !ok {
		return errJSON(c, http.StatusNotFound, "shop not found")
	}
	if s.owners[id] != user.ID {
		return errJSON(c, http.StatusForbidden, "not your shop")
	}

	in.ID = shop.ID
	in.Services = shop.Services
	*shop = in
	return c.JSON(http.StatusOK, map[string]domain.Shop{"shop": *shop})
}

func (s *Server) handleAddService(c echo.Context) error {
	user := currentUser(c)
	id := c.Param("id")

	var svc domain.ShopService
	if err := c.Bind(&svc); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	if !ok {
		return errJSON(c, http.StatusNotFound, "shop not found")
	}
	if s.owners[id] != user.ID {
		return errJSON(c, http.StatusForbidden, "not your shop")
	}

	s.nextID++
	svc.ID = fmt.Sprintf("svc_%d", s.nextID)
	shop.Services = append(shop.Services, svc)
	return c.JSON(http.StatusCreated, map[string]domain.Shop{"shop": *shop})
}

func (s *Server) handleMyShop(c echo.Context) error {
	user := currentUser(c)
	if user.Role != domain.RoleBarber {
		return errJSON(c, http.StatusForbidden, "not a barber account")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	shop := s.shopOfLocked(user.ID)
	if shop == nil {
		return errJSON(c, http.StatusNotFound, "shop not found")
	}
	return c.JSON(http.StatusOK, map[string]domain.Shop{"shop": *shop})
}

func (s *Server) shopOfLocked(userID string) *domain.Shop {
	for id, owner := range s.owners {
		if owner == userID {
			return s.shops[id]
		}
	}
	return nil
}

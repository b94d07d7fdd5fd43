package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"campfire/internal/middleware"
	"campfire/internal/models"
	"campfire/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knownUsersRepo is a minimal in-memory UserRepository keyed by ID.
type knownUsersRepo struct {
	users map[uint]*models.User
}

func (r *knownUsersRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *knownUsersRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", id)
}

func (r *knownUsersRepo) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	return nil, models.NewNotFoundError("User", publicID)
}

func (r *knownUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (r *knownUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}

func (r *knownUsersRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (r *knownUsersRepo) Delete(ctx context.Context, id uint) error           { return nil }

func (r *knownUsersRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return nil, nil
}

const authTestSecret = "test-secret-key-12345678901234567890123456789012"

func newAuthTestApp(t *testing.T, users map[uint]*models.User) (*fiber.App, *token.Service) {
	t.Helper()

	svc := token.NewService(authTestSecret, time.Hour, &knownUsersRepo{users: users})
	s := &Server{tokenService: svc}

	app := fiber.New()
	app.Use(s.Authenticate())

	app.Get("/public", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": currentUserID(c)})
	})
	app.Get("/protected", s.RequireAuth(), func(c *fiber.Ctx) error {
		ctxID, _ := middleware.UserIDFromContext(c.UserContext())
		return c.JSON(fiber.Map{
			"userID":    currentUserID(c),
			"ctxUserID": ctxID,
		})
	})

	return app, svc
}

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	str, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return str
}

func TestAuthenticate(t *testing.T) {
	alice := &models.User{ID: 7, Username: "alice"}
	app, svc := newAuthTestApp(t, map[uint]*models.User{7: alice})

	validToken, err := svc.Issue(alice)
	require.NoError(t, err)

	baseClaims := func(sub string) jwt.MapClaims {
		return jwt.MapClaims{
			"sub": sub,
			"iss": token.Issuer,
			"aud": token.Audience,
			"exp": time.Now().Add(time.Hour).Unix(),
			"iat": time.Now().Unix(),
		}
	}

	expiredClaims := baseClaims("7")
	expiredClaims["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongIssuer := baseClaims("7")
	wrongIssuer["iss"] = "someone-else"

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantUserID float64
	}{
		{
			name:       "valid token on protected route",
			path:       "/protected",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantUserID: 7,
		},
		{
			name:       "no header on public route passes anonymously",
			path:       "/public",
			wantStatus: http.StatusOK,
			wantUserID: 0,
		},
		{
			name:       "no header on protected route",
			path:       "/protected",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed bearer format",
			path:       "/public",
			authHeader: "BearerTokenOnly",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			path:       "/public",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			path:       "/public",
			authHeader: "Bearer " + signClaims(t, authTestSecret, expiredClaims),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signing key",
			path:       "/public",
			authHeader: "Bearer " + signClaims(t, "another-secret-entirely-0123456789abcdef", baseClaims("7")),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong issuer",
			path:       "/public",
			authHeader: "Bearer " + signClaims(t, authTestSecret, wrongIssuer),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "well-formed token for deleted user",
			path:       "/public",
			authHeader: "Bearer " + signClaims(t, authTestSecret, baseClaims("999")),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantUserID, body["userID"])
			}
		})
	}
}

// Concurrent requests must each observe only their own caller's identity,
// both in fiber locals and in the request context.
func TestAuthenticateConcurrentIdentityIsolation(t *testing.T) {
	const numUsers = 8
	const requestsPerUser = 20

	users := make(map[uint]*models.User, numUsers)
	for i := uint(1); i <= numUsers; i++ {
		users[i] = &models.User{ID: i, Username: fmt.Sprintf("user%d", i)}
	}
	app, svc := newAuthTestApp(t, users)

	tokens := make(map[uint]string, numUsers)
	for id, u := range users {
		tok, err := svc.Issue(u)
		require.NoError(t, err)
		tokens[id] = tok
	}

	var wg sync.WaitGroup
	errs := make(chan error, numUsers*requestsPerUser)

	for id := uint(1); id <= numUsers; id++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			for i := 0; i < requestsPerUser; i++ {
				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				req.Header.Set("Authorization", "Bearer "+tokens[id])

				resp, err := app.Test(req)
				if err != nil {
					errs <- err
					return
				}

				var body struct {
					UserID    uint `json:"userID"`
					CtxUserID uint `json:"ctxUserID"`
				}
				err = json.NewDecoder(resp.Body).Decode(&body)
				resp.Body.Close()
				if err != nil {
					errs <- err
					return
				}

				if body.UserID != id || body.CtxUserID != id {
					errs <- fmt.Errorf("request for user %d observed locals=%d ctx=%d",
						id, body.UserID, body.CtxUserID)
					return
				}
			}
		}(id)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRequireAuthWithoutAuthenticate(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/protected", s.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeUnauthorized, body.Code)
}

func TestAdminRequired(t *testing.T) {
	admin := &models.User{ID: 1, Username: "root", Role: models.UserRoleAdmin}
	regular := &models.User{ID: 2, Username: "pleb", Role: models.UserRoleUser}
	repo := &knownUsersRepo{users: map[uint]*models.User{1: admin, 2: regular}}

	s := &Server{userRepo: repo}
	app := fiber.New()

	// Bind a fixed identity the way Authenticate would.
	asUser := func(id uint) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals("userID", id)
			return c.Next()
		}
	}

	app.Get("/admin-as-admin", asUser(1), s.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/admin-as-user", asUser(2), s.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin-as-admin", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin-as-user", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeForbidden, body.Code)
}

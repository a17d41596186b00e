package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/models"
	"github.com/minuteserv/minuteserv-go/pkg/utils"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": c.GetUint("userId"), "userType": c.GetString("userType")})
	})
	return r
}

func requestWithToken(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("middleware-test-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	r := sessionRouter()

	user := &models.User{PhoneNumber: "+15550001111", UserType: models.UserTypeCustomer}
	user.ID = 42
	token, err := utils.GenerateSessionToken(user)
	require.NoError(t, err)

	w := requestWithToken(t, r, token)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":42`)
	assert.Contains(t, w.Body.String(), `"userType":"customer"`)
}

func TestSessionMiddlewareRejectsMissingCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	w := requestWithToken(t, sessionRouter(), "")
	assert.Equal(t, 401, w.Code)
}

func TestSessionMiddlewareRejectsBadSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	r := sessionRouter()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       float64(1),
		"userType": "customer",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	w := requestWithToken(t, r, forged)
	assert.Equal(t, 401, w.Code)
}

// Validly-signed tokens missing a claim must answer 401, not crash the
// handler into a 500.
func TestSessionMiddlewareRejectsIncompleteClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	r := sessionRouter()

	exp := time.Now().Add(time.Hour).Unix()
	cases := map[string]jwt.MapClaims{
		"missing id":        {"userType": "customer", "exp": exp},
		"missing userType":  {"id": float64(1), "exp": exp},
		"id wrong type":     {"id": "one", "userType": "customer", "exp": exp},
		"userType not text": {"id": float64(1), "userType": 7, "exp": exp},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			w := requestWithToken(t, r, signClaims(t, claims))
			assert.Equal(t, 401, w.Code)
		})
	}
}

func TestRequireUserType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userType", "customer") })
	r.Use(RequireUserType("partner"))
	r.GET("/whoami", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)
}

package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bdcserver/model"
	"bdcserver/services"
	"bdcserver/store"
	"bdcserver/store/memstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &Config{Port: "0", RequestTimeout: time.Second, CORSOrigins: []string{"*"}}
	st := memstore.New()
	return NewRouter(cfg, st, services.JWTVerifier{Secret: []byte("test")}, zap.NewNop()), st
}

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_OperationalRoutes(t *testing.T) {
	r, st := newTestRouter(t)

	w := get(r, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BDC V2 server running", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "/healthz", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "bdc_http_requests_total"))

	require.NoError(t, st.Close(context.Background()))
	w = get(r, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_AdminRouteWithJWT(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()
	_, err := st.InsertOne(ctx, store.Users, store.Document{"email": "admin@bdc.org", "role": model.RoleAdmin})
	require.NoError(t, err)
	res, err := st.InsertOne(ctx, store.Blogs, store.Document{"title": "t", "blogStatus": model.BlogPending})
	require.NoError(t, err)

	token, err := services.CreateAccessToken([]byte("test"), "admin@bdc.org", time.Minute)
	require.NoError(t, err)

	path := "/api/v1/delete-blog/" + res.InsertedID.(primitive.ObjectID).Hex()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(r, "/", map[string]string{"Origin": "https://bdc.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

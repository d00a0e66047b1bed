package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func do(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter_Defaults(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouter_SetupMountsGroups(t *testing.T) {
	engine := gin.New()
	deals := NewDomainGroup("deals", "/deals")
	deals.GET("/:id", ok("get"))
	deals.Group("actions", "/:id/actions").POST("/close", ok("close"))

	NewRouter(engine).Register(deals).Setup()

	w := do(engine, http.MethodGet, "/api/v1/deals/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "get", w.Body.String())

	w = do(engine, http.MethodPost, "/api/v1/deals/42/actions/close")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "close", w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/deals/42").Code)
}

func TestRouter_MiddlewareScopes(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", ok("up"))

	var apiHits, groupHits int
	api := func(c *gin.Context) { apiHits++ }
	group := func(c *gin.Context) { groupHits++ }

	tenants := NewDomainGroup("tenants", "/tenants").Use(group)
	tenants.GET("/:id", ok("tenant"))
	settings := NewDomainGroup("settings", "/settings")
	settings.GET("", ok("settings"))

	NewRouter(engine, WithMiddleware(api)).Register(tenants, settings).Setup()

	do(engine, http.MethodGet, "/health")
	assert.Zero(t, apiHits)

	do(engine, http.MethodGet, "/api/v1/settings")
	assert.Equal(t, 1, apiHits)
	assert.Zero(t, groupHits)

	do(engine, http.MethodGet, "/api/v1/tenants/7")
	assert.Equal(t, 2, apiHits)
	assert.Equal(t, 1, groupHits)
}

type rawRegistrar struct{}

func (rawRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/raw", ok("raw"))
}

func TestRouter_PlainRegistrar(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Register(rawRegistrar{})
	r.Setup()

	assert.Equal(t, "raw", do(engine, http.MethodGet, "/api/v1/raw").Body.String())
	assert.Empty(t, r.Routes())
}

func TestRouter_Routes(t *testing.T) {
	units := NewDomainGroup("units", "/units")
	units.POST("", ok(""))
	units.PUT("/:id", ok(""))
	units.GET("/:id", ok(""))
	webhook := NewDomainGroup("integrations", "/integrations/openclaw")
	webhook.Handle(http.MethodPost, "/webhook", ok(""))

	r := NewRouter(gin.New()).Register(units, webhook)

	assert.Equal(t, []Route{
		{Group: "integrations", Method: http.MethodPost, Path: "/api/v1/integrations/openclaw/webhook"},
		{Group: "units", Method: http.MethodPost, Path: "/api/v1/units"},
		{Group: "units", Method: http.MethodGet, Path: "/api/v1/units/:id"},
		{Group: "units", Method: http.MethodPut, Path: "/api/v1/units/:id"},
	}, r.Routes())
}

func TestDomainGroup_Accessors(t *testing.T) {
	dg := NewDomainGroup("deals", "/deals")
	assert.Equal(t, "deals", dg.Name())
	assert.Equal(t, "/deals", dg.Prefix())
}

package commands

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Houssam365/campuShare/internal/config"
	"github.com/Houssam365/campuShare/internal/handlers"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQuote_Daily(t *testing.T) {
	out, err := run(t, "quote", "--policy", "daily", "--price", "10", "--duration", "240h")
	require.NoError(t, err)
	assert.Equal(t, "daily (billed per day, 20% off from 7 days): 80.00\n", out)
}

func TestQuote_HourlyRateFromEnvironment(t *testing.T) {
	t.Setenv("HOURLY_RATE", "1.5")
	out, err := run(t, "quote", "--price", "4", "--duration", "2h")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, ": 12.00\n"), out)
}

func TestQuote_UnknownPolicy(t *testing.T) {
	_, err := run(t, "quote", "--policy", "weekly")
	assert.ErrorContains(t, err, "unknown pricing policy")
}

func TestQuote_InvalidConfig(t *testing.T) {
	t.Setenv("DAILY_DISCOUNT", "2")
	_, err := run(t, "quote")
	assert.ErrorContains(t, err, "DAILY_DISCOUNT")
}

func TestBuildHandler_ServesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := config.Default()
	c.IDStrategy = "ulid"
	c.CalendarEnabled = true
	c.CardLatency = 0

	h, err := buildHandler(c, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	router := gin.New()
	h.RegisterRoutes(router)

	body := strings.NewReader(`{"first_name":"Alice","email":"alice@etu.example.fr"}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"balance":100`)

	req = httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader(`{"kind":"good","title":"Tent"}`))
	req.Header.Set(handlers.AccountHeader, "missing")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuildHandler_UnknownIDStrategy(t *testing.T) {
	c := config.Default()
	c.IDStrategy = "serial"
	_, err := buildHandler(c, nil)
	assert.Error(t, err)
}

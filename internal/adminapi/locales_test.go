package adminapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftista/storefront/internal/catalog"
)

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestImageResync_RequiresConfirmation(t *testing.T) {
	c, rec := newTestContext(t, http.MethodPost, "/api/images/resync", `{}`)
	require.NoError(t, imageResync(c))
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFIRM_REQUIRED")
	assert.Contains(t, rec.Body.String(), "overwrites")
}

func TestFailLocaleError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{catalog.ErrUnsupportedLocale, http.StatusBadRequest, "UNSUPPORTED_LOCALE"},
		{catalog.ErrDefaultLocale, http.StatusBadRequest, "DEFAULT_LOCALE"},
		{catalog.ErrProductNotFound, http.StatusNotFound, "NOT_FOUND"},
		{catalog.ErrNoSourceLocale, http.StatusConflict, "NO_SOURCE_LOCALE"},
		{catalog.ErrSlugExhausted, http.StatusConflict, "SLUG_EXHAUSTED"},
		{catalog.ErrPersistenceConflict, http.StatusConflict, "CONFLICT"},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t, http.MethodPost, "/api/products/1/locales", `{}`)
		require.NoError(t, failLocaleError(c, tc.err))
		assert.Equal(t, tc.status, rec.Code, tc.code)
		assert.Contains(t, rec.Body.String(), tc.code)
	}
}

func TestParsePagination(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/api/products?page=3&pageSize=50", "")
	page, pageSize := parsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)

	c, _ = newTestContext(t, http.MethodGet, "/api/products?page=-1&pageSize=9999", "")
	page, pageSize = parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}

func TestOperatorName_NoToken(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/api/products", "")
	assert.Equal(t, "unknown", operatorName(c))
}

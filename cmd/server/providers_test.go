package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoleowills/SQL-Library-Manager/internal/config"
	"github.com/geoleowills/SQL-Library-Manager/internal/logging"
	"github.com/geoleowills/SQL-Library-Manager/internal/store"
	"github.com/geoleowills/SQL-Library-Manager/internal/store/sqlstore"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	return &config.Config{
		ListenHost:      "127.0.0.1",
		ListenPort:      0,
		ShutdownTimeout: time.Second,
		Database: config.Database{
			Driver:       driver,
			DSN:          filepath.Join(t.TempDir(), "books.db"),
			MaxOpenConns: 1,
		},
		PageRadius: 3,
	}
}

func TestInitializeServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, driver := range []string{store.DriverGormSQLite, store.DriverSQLite3} {
		t.Run(driver, func(t *testing.T) {
			srv, cleanup, err := initializeServer(testConfig(t, driver), logging.Discard())
			require.NoError(t, err)
			t.Cleanup(cleanup)

			assert.Equal(t, "127.0.0.1:0", srv.HTTP.Addr)

			w := httptest.NewRecorder()
			srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestProvideStore_UnknownDriver(t *testing.T) {
	_, _, err := provideStore(testConfig(t, "oracle"), logging.Discard())
	assert.ErrorIs(t, err, sqlstore.ErrUnsupportedDriver)
}

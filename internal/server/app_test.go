package server

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/config"
	"github.com/dmitrijs2005/clubevent/internal/server/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.BcryptCost = 4
	c.RunMigrations = false
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_MissingSecretInProductionFails(t *testing.T) {
	c := testConfig()
	c.Environment = config.EnvProduction
	c.SecretKey = ""

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingSecretKey))
}

func TestNewApp_DevelopmentWarnsAboutDefaultKey(t *testing.T) {
	c := testConfig()
	c.Environment = config.EnvDevelopment
	c.SecretKey = ""

	var out bytes.Buffer
	app, err := NewApp(context.Background(), c, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.Equal(t, config.DevSecretKey, c.SecretKey)
	assert.Contains(t, out.String(), `"level":"WARN"`)
	assert.True(t, strings.Contains(out.String(), "development signing key"))
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	c := testConfig()
	c.SecretKey = "run-test-key"

	app, err := newApp(c, logging.Nop{}, db, memory.NewManager())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_Run_StopsOnSignal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	prev := shutdownSignals
	shutdownSignals = []os.Signal{syscall.SIGUSR1}
	t.Cleanup(func() { shutdownSignals = prev })

	c := testConfig()
	c.SecretKey = "signal-test-key"

	app, err := newApp(c, logging.Nop{}, db, memory.NewManager())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop on signal")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

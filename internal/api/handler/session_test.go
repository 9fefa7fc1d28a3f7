package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

func sessionApp(store *session.Store) *fiber.App {
	app := fiber.New()
	app.Delete("/v1/session", NewSessionHandler(store, testLogger()).Clear)
	return app
}

func TestClearSession(t *testing.T) {
	store := session.NewStore()
	store.Append(domain.ImageRecord{Filename: "a.png"})
	store.Append(domain.ImageRecord{Filename: "b.png"})
	app := sessionApp(store)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/session", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got ClearResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2, got.Cleared)
	assert.Equal(t, 0, store.Len())
}

func TestClearEmptySession(t *testing.T) {
	app := sessionApp(session.NewStore())

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/session", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got ClearResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 0, got.Cleared)
}

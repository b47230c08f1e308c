package handlers

import (
	"encoding/json"
	"testing"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeUpdate(t *testing.T, body string) *updatePlayerRequest {
	t.Helper()
	var req updatePlayerRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestApplyPlayerUpdate(t *testing.T) {
	catalogPlayer := func() *models.Player {
		serial := int64(5)
		return &models.Player{
			ID:           5,
			Name:         "Kohli",
			Image:        "kohli.png",
			Role:         "Batsman",
			Country:      "India",
			BasePrice:    2000,
			Status:       models.PlayerStatusAvailable,
			SerialNumber: &serial,
		}
	}

	t.Run("rename leaves every other field untouched", func(t *testing.T) {
		p := catalogPlayer()
		require.NoError(t, applyPlayerUpdate(p, decodeUpdate(t, `{"name":"V Kohli"}`)))

		assert.Equal(t, "V Kohli", p.Name)
		assert.Equal(t, "kohli.png", p.Image)
		assert.Equal(t, "India", p.Country)
		assert.Equal(t, "Batsman", p.Role)
		assert.Equal(t, int64(2000), p.BasePrice)
		require.NotNil(t, p.SerialNumber)
		assert.Equal(t, int64(5), *p.SerialNumber)
	})

	t.Run("moves the serial when one is sent", func(t *testing.T) {
		p := catalogPlayer()
		require.NoError(t, applyPlayerUpdate(p, decodeUpdate(t, `{"serialNumber":2}`)))

		require.NotNil(t, p.SerialNumber)
		assert.Equal(t, int64(2), *p.SerialNumber)
	})

	t.Run("explicit null clears the serial", func(t *testing.T) {
		p := catalogPlayer()
		require.NoError(t, applyPlayerUpdate(p, decodeUpdate(t, `{"serialNumber":null}`)))

		assert.Nil(t, p.SerialNumber)
	})

	t.Run("clears image and country only when sent", func(t *testing.T) {
		p := catalogPlayer()
		require.NoError(t, applyPlayerUpdate(p, decodeUpdate(t, `{"image":"","country":""}`)))

		assert.Empty(t, p.Image)
		assert.Empty(t, p.Country)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		for _, body := range []string{
			`{"name":""}`,
			`{"role":""}`,
			`{"basePrice":0}`,
			`{"basePrice":-100}`,
			`{"serialNumber":0}`,
			`{"serialNumber":-3}`,
			`{"serialNumber":"first"}`,
		} {
			p := catalogPlayer()
			assert.Error(t, applyPlayerUpdate(p, decodeUpdate(t, body)), body)
		}
	})
}

package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slidedeck/internal/config"
	"slidedeck/internal/models"
	"slidedeck/internal/render"
	"slidedeck/internal/services"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	c := config.Default()
	c.Storage.Backend = backend
	c.Storage.DataPath = t.TempDir()
	c.Storage.DBPath = filepath.Join(t.TempDir(), "deck.db")
	return c
}

func TestGetTLSVersion(t *testing.T) {
	assert.Equal(t, uint16(tls.VersionTLS10), getTLSVersion("1.0"))
	assert.Equal(t, uint16(tls.VersionTLS13), getTLSVersion("1.3"))
	assert.Equal(t, uint16(tls.VersionTLS12), getTLSVersion(""))
	assert.Equal(t, uint16(tls.VersionTLS12), getTLSVersion("ssl3"))
}

func TestLoadOrSeed(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			b, err := openBackend(testConfig(t, backend), zap.NewNop())
			require.NoError(t, err)
			defer b.close()
			if backend == config.BackendFile {
				assert.NotEmpty(t, b.path)
			} else {
				assert.Empty(t, b.path, "sqlite is not watched")
			}

			_, err = loadOrSeed(ctx, b.store, false, zap.NewNop())
			assert.True(t, errors.Is(err, services.ErrNotFound))

			doc, err := loadOrSeed(ctx, b.store, true, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, "My Presentation", doc.DocumentName)

			stored, err := b.store.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, stored.Slides, len(doc.Slides))
		})
	}
}

func TestWriteViolations(t *testing.T) {
	var out bytes.Buffer
	doc := &models.Document{DocumentName: "Deck", Slides: []models.Slide{
		{ID: "1", Content: models.HeaderOnly{Header: "ok"}},
	}}
	require.NoError(t, writeViolations(&out, doc))
	assert.Contains(t, out.String(), "no violations")

	out.Reset()
	doc.Slides = append(doc.Slides, models.Slide{ID: "1", Content: models.Unknown{Type: "carousel"}})
	err := writeViolations(&out, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidDocument))
	assert.Contains(t, out.String(), `slide 1: type: unknown slide type "carousel"`)
	assert.Contains(t, out.String(), "slide 1: id: duplicate of slide 0")
}

func TestWriteSlide(t *testing.T) {
	doc := &models.Document{DocumentName: "Deck", Slides: []models.Slide{
		{ID: "1", Content: models.HeaderOnly{Header: "Hello there"}},
	}}

	var out bytes.Buffer
	require.NoError(t, writeSlide(&out, doc, 0, false))
	assert.Contains(t, out.String(), "Hello there")
	assert.Contains(t, out.String(), `data-slide-type="header-only"`)
	assert.NotContains(t, out.String(), "<html")

	out.Reset()
	require.NoError(t, writeSlide(&out, doc, 0, true))
	assert.Contains(t, out.String(), "<html")

	assert.ErrorIs(t, writeSlide(&out, doc, 1, false), render.ErrIndexOutOfRange)
	assert.ErrorIs(t, writeSlide(&out, doc, -1, true), render.ErrIndexOutOfRange)
}

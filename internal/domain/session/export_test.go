package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SessionKeeper/internal/testutil"
)

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		testutil.Session("a", 100, testutil.Window("https://a.com")),
		testutil.Session("b", 200, testutil.Window("https://b.com")),
	)
	ctx := context.Background()

	t.Run("json default", func(t *testing.T) {
		res, err := env.manager.Export(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, res.Format)
		assert.Equal(t, "application/json", res.ContentType)

		var doc Export
		require.NoError(t, json.Unmarshal([]byte(res.Data), &doc))
		assert.Equal(t, []string{"b", "a"}, testutil.IDs(doc.Sessions))
		assert.Equal(t, env.clock.t.UnixMilli(), doc.ExportedAt)
	})

	t.Run("yaml", func(t *testing.T) {
		res, err := env.manager.Export(ctx, "YAML")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, res.Format)

		var doc Export
		require.NoError(t, yaml.Unmarshal([]byte(res.Data), &doc))
		require.Len(t, doc.Sessions, 2)
		assert.Equal(t, "https://b.com", doc.Sessions[0].Windows[0].Tabs[0].URL)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := env.manager.Export(ctx, "xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

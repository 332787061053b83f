package relay_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/pkg/relay"
)

func TestDev_Send(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "outbox")
	require.NoError(t, relay.NewDev(dir, testRenderer).Send(context.Background(), sampleMessage))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		switch {
		case strings.HasSuffix(e.Name(), ".html"):
			assert.Equal(t, "<p>Hello there!</p>", string(data))
		case strings.HasSuffix(e.Name(), ".json"):
			var rec map[string]any
			require.NoError(t, json.Unmarshal(data, &rec))
			assert.Equal(t, "service_abc", rec["service_id"])
			assert.Equal(t, "template_xyz", rec["template_id"])
		default:
			t.Fatalf("unexpected file %s", e.Name())
		}
	}
}

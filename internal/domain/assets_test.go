package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippedAssetsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "public", "data", "json")

	for _, res := range Resources() {
		t.Run(res.Name, func(t *testing.T) {
			b, err := os.ReadFile(filepath.Join(dir, res.Asset+".json"))
			require.NoError(t, err)

			var items []json.RawMessage
			require.NoError(t, json.Unmarshal(b, &items))
			require.NotEmpty(t, items)

			seen := make(map[ID]bool)
			for i, raw := range items {
				e, err := Decode(res.Name, raw, i)
				require.NoError(t, err, "item %d", i)
				assert.False(t, seen[e.EntityID()], "duplicate id %s", e.EntityID())
				seen[e.EntityID()] = true
			}
		})
	}
}

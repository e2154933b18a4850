package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSwagger_DocumentsRoutes(t *testing.T) {
	raw := NewSwagger("localhost:3000").MustToJson()

	var doc struct {
		BasePath string                            `json:"basePath"`
		Paths    map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "/api", doc.BasePath)
	assert.Contains(t, doc.Paths["/upload"], "post")
	assert.Contains(t, doc.Paths["/emotion"], "get")
	assert.Contains(t, doc.Paths["/emotion"], "post")
	assert.Contains(t, doc.Paths["/recommendation"], "post")
	assert.Contains(t, doc.Paths["/video_feed"], "get")
}

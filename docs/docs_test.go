package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocDescribesResponseEnvelope(t *testing.T) {
	var doc struct {
		Info struct {
			Description string `json:"description"`
		} `json:"info"`
		Paths map[string]map[string]struct {
			Description string `json:"description"`
			Responses   map[string]struct {
				Schema struct {
					AllOf []map[string]interface{} `json:"allOf"`
				} `json:"schema"`
			} `json:"responses"`
		} `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Contains(t, doc.Info.Description, "{success, message, data, timestamp}")

	create := doc.Paths["/applications"]["post"]
	assert.Contains(t, create.Description, "applicationId and courseCount are under data")
	require.Len(t, create.Responses["201"].Schema.AllOf, 2)
	assert.Contains(t, doc.Definitions, "dto.CreateApplicationResponse")
}

package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
  "response": {
    "GeoObjectCollection": {
      "featureMember": [
        {
          "GeoObject": {
            "Point": {"pos": "30.315868 59.939095"},
            "metaDataProperty": {
              "GeocoderMetaData": {
                "Address": {
                  "Components": [
                    {"kind": "country", "name": "Russia"},
                    {"kind": "locality", "name": "Saint Petersburg"},
                    {"kind": "street", "name": "Nevsky Prospect"}
                  ]
                }
              }
            }
          }
        }
      ]
    }
  }
}`

func TestParseResponse(t *testing.T) {
	res, err := parseResponse([]byte(sampleBody))
	require.NoError(t, err)

	assert.True(t, res.HasPoint)
	assert.InDelta(t, 59.939095, res.Latitude, 1e-9)
	assert.InDelta(t, 30.315868, res.Longitude, 1e-9)
	assert.Equal(t, "Saint Petersburg", res.City)
}

func TestParseResponseEmptyCollection(t *testing.T) {
	res, err := parseResponse([]byte(`{"response":{"GeoObjectCollection":{"featureMember":[]}}}`))
	require.NoError(t, err)

	assert.False(t, res.HasPoint)
	assert.Empty(t, res.City)
}

func TestParseResponseMalformedPos(t *testing.T) {
	body := `{"response":{"GeoObjectCollection":{"featureMember":[{"GeoObject":{"Point":{"pos":"not-a-point"}}}]}}}`
	res, err := parseResponse([]byte(body))
	require.NoError(t, err)
	assert.False(t, res.HasPoint)
}

func TestParseResponseInvalidJSON(t *testing.T) {
	_, err := parseResponse([]byte("<html>not json</html>"))
	assert.Error(t, err)
}

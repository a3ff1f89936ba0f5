package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want ID
	}{
		{"string", `"li-bai"`, "li-bai"},
		{"integer", `42`, "42"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.json), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestTransformPerson(t *testing.T) {
	p, err := TransformPerson(json.RawMessage(`{"id":7,"name":"司马迁","birth_year":-145,"source_ids":["shiji",3]}`), 0)
	require.NoError(t, err)
	assert.Equal(t, ID("7"), p.ID)
	assert.Equal(t, "司马迁", p.Name)
	require.NotNil(t, p.BirthYear)
	assert.Equal(t, -145, *p.BirthYear)
	assert.Equal(t, []ID{"shiji", "3"}, p.SourceIDs)
}

func TestTransform_FillsMissingID(t *testing.T) {
	p, err := TransformPlace(json.RawMessage(`{"name":"长安"}`), 4)
	require.NoError(t, err)
	assert.Equal(t, ID("place-5"), p.ID)
}

func TestTransform_InvalidJSON(t *testing.T) {
	_, err := TransformEvent(json.RawMessage(`[1,2]`), 0)
	assert.Error(t, err)
}

func TestLookupResource(t *testing.T) {
	r, ok := LookupResource("dynasties")
	require.True(t, ok)
	assert.Equal(t, "/dynasties", r.Endpoint)

	_, ok = LookupResource("aliens")
	assert.False(t, ok)
	assert.Len(t, Resources(), 7)
}

func TestDecode(t *testing.T) {
	e, err := Decode("sources", json.RawMessage(`{"id":"s1","title":"史记","confidence":0.9}`), 0)
	require.NoError(t, err)
	assert.Equal(t, ID("s1"), e.EntityID())

	_, err = Decode("sources", json.RawMessage(`{"id":"s2","title":"野史","confidence":1.5}`), 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Confidence")

	_, err = Decode("dynasties", json.RawMessage(`{"name":"秦","start_year":-221,"end_year":-260}`), 0)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "EndYear")

	_, err = Decode("persons", json.RawMessage(`{"id":"p"}`), 0)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Name")

	_, err = Decode("aliens", json.RawMessage(`{}`), 0)
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestValidate_PlaceCoordinates(t *testing.T) {
	lat, lng := 34.26, 108.94
	assert.NoError(t, Validate(Place{ID: "xian", Name: "长安", Latitude: &lat, Longitude: &lng}))
	assert.NoError(t, Validate(Place{ID: "unknown", Name: "蓬莱"}))

	bad := 123.0
	assert.Error(t, Validate(Place{ID: "x", Name: "x", Latitude: &bad}))
}

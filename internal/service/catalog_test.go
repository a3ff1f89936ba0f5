package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/domain"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCatalog(mode datasource.Mode, api ItemsFetcher) *Catalog {
	return NewCatalog(Deps{
		Mode:     mode,
		Fallback: fallback.New(fallback.DefaultConfig(), zap.NewNop()),
		API:      api,
		Assets:   testAssets(),
		Logger:   zap.NewNop(),
	})
}

func TestCatalog_Resources(t *testing.T) {
	cat := newTestCatalog(datasource.ModeMock, nil)

	assert.Equal(t, []string{"persons", "events", "places", "dynasties", "emperors", "mythologies", "sources"}, cat.Names())
	assert.Equal(t, datasource.ModeMock, cat.Mode())

	r, err := cat.Resource("persons")
	require.NoError(t, err)
	p, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, datasource.SourceMock, p.Source)
	assert.Len(t, p.Data, 3)

	_, err = cat.Resource("aliens")
	assert.ErrorIs(t, err, domain.ErrUnknownResource)
}

func TestCatalog_GetTypeErased(t *testing.T) {
	cat := newTestCatalog(datasource.ModeMock, nil)
	r, err := cat.Resource("persons")
	require.NoError(t, err)

	p, err := r.Get(context.Background(), "mencius")
	require.NoError(t, err)
	person, ok := p.Data.(domain.Person)
	require.True(t, ok)
	assert.Equal(t, "孟子", person.Name)

	p, err = r.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, p.Data)

	sources, err := cat.Resource("sources")
	require.NoError(t, err)
	_, err = sources.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrGetByIDDisabled)
}

func TestCatalog_StatusAndControl(t *testing.T) {
	cat := newTestCatalog(datasource.ModeAPI, new(MockFetcher))

	st := cat.Status()
	assert.Equal(t, datasource.ModeAPI, st.Mode)
	assert.False(t, st.Fallback.IsActive)
	assert.Nil(t, st.Fallback.ActivatedAt)

	ctl := cat.Control()
	fs := ctl.Activate()
	assert.True(t, fs.IsActive)
	require.NotNil(t, fs.ActivatedAt)
	assert.True(t, cat.Status().Fallback.IsActive)

	fs = ctl.Deactivate()
	assert.False(t, fs.IsActive)
	assert.Nil(t, fs.ActivatedAt)

	d := 30 * time.Second
	fs = ctl.UpdateConfig(fallback.ConfigUpdate{FallbackDuration: &d})
	assert.Equal(t, d, fs.Config.FallbackDuration)
	assert.Equal(t, fallback.DefaultThreshold, fs.Config.FallbackThreshold)

	fs = ctl.Reset()
	assert.False(t, fs.IsActive)
	assert.Zero(t, fs.FailureCount)
	assert.Equal(t, d, ctl.GetState().Config.FallbackDuration, "reset keeps config")
}

func TestCatalog_StatusRecordsLastError(t *testing.T) {
	api := new(MockFetcher)
	api.On("GetItems", mock.Anything, "/events").Return(nil, httpStatus(502))
	cat := newTestCatalog(datasource.ModeAPI, api)

	_, err := cat.Events.GetAll(context.Background())
	require.Error(t, err)

	st := cat.Status()
	assert.Equal(t, 1, st.Fallback.FailureCount)
	require.NotNil(t, st.Fallback.LastError)
	assert.Equal(t, fallback.KindServer, st.Fallback.LastError.Kind)

	b, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mode":"api"`)
	assert.Contains(t, string(b), `"kind":"SERVER_ERROR"`)
	assert.NotContains(t, string(b), "activatedAt")
}

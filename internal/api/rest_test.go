package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/lane2go/lane2go/internal/actuation"
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/controller"
	"github.com/lane2go/lane2go/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoop struct {
	result *controller.CycleResult[float64]
}

func (l *fakeLoop) IsActive() bool {
	return l.result != nil
}

func (l *fakeLoop) GetStatistics() controller.ControlLoopStatistics {
	if l.result == nil {
		return controller.ControlLoopStatistics{IdleCycles: 3}
	}
	return controller.ControlLoopStatistics{IdleCycles: 3, ActiveCycles: 1}
}

func (l *fakeLoop) LastResult() (controller.CycleResult[float64], bool) {
	if l.result == nil {
		return controller.CycleResult[float64]{}, false
	}
	return *l.result, true
}

func request(t *testing.T, loop *fakeLoop, p persistence.Persistence, path string) *httptest.ResponseRecorder {
	rest := CreateRestService[float64](loop, p)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, req)
	return rec
}

func TestAlive(t *testing.T) {
	// WHEN
	rec := request(t, &fakeLoop{}, nil, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetLoop_Idle(t *testing.T) {
	// WHEN
	rec := request(t, &fakeLoop{}, nil, "/loop/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var status LoopStatus[float64]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Active)
	assert.Nil(t, status.LastResult)
	assert.Equal(t, uint64(3), status.Statistics.IdleCycles)
}

func TestGetLoop_Active(t *testing.T) {
	// GIVEN
	loop := &fakeLoop{result: &controller.CycleResult[float64]{
		Estimated: 330,
		Error:     16,
		Steering:  12.5,
		Speed:     8,
		Command:   actuation.Command{Angle: 13, Speed: 8},
	}}

	// WHEN
	rec := request(t, loop, nil, "/loop/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var status LoopStatus[float64]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Active)
	require.NotNil(t, status.LastResult)
	assert.Equal(t, actuation.Command{Angle: 13, Speed: 8}, status.LastResult.Command)
}

func TestGetLastCycle_NotActive(t *testing.T) {
	// WHEN
	rec := request(t, &fakeLoop{}, nil, "/loop/last/")

	// THEN
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetConfig_MasksPassword(t *testing.T) {
	// GIVEN
	configuration.CurrentConfig = configuration.Configuration{
		Redis: configuration.RedisConfig{Addr: "localhost:6379", Password: "secret"},
	}
	t.Cleanup(func() {
		configuration.CurrentConfig = configuration.Configuration{}
	})

	// WHEN
	rec := request(t, &fakeLoop{}, nil, "/config/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var config configuration.Configuration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Equal(t, maskedSecret, config.Redis.Password)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Equal(t, "secret", configuration.CurrentConfig.Redis.Password)
}

func TestGetRun(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "lane2go.db"))
	require.NoError(t, p.StartRun("run-1", time.Now()))
	require.NoError(t, p.SaveRecords("run-1", []persistence.Record{{Angle: 3, Speed: 9}}))

	// WHEN
	rec := request(t, &fakeLoop{}, p, "/run/run-1/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var run RunRecords
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "run-1", run.Id)
	assert.Len(t, run.Commands, 1)
}

func TestGetRun_NotFound(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "lane2go.db"))

	// WHEN
	rec := request(t, &fakeLoop{}, p, "/run/missing/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRuns_DisabledWithoutPersistence(t *testing.T) {
	// WHEN
	rec := request(t, &fakeLoop{}, nil, "/run/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

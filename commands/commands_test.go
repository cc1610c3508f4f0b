package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/middleclick/middleclick/engine"
	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempConfig points the commands at a fresh preferences file and restores
// the package state afterwards
func useTempConfig(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })
	return path
}

func useEngine(t *testing.T, cfg gesture.Config) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Options{Config: cfg})
	require.NoError(t, err)
	SetEngine(eng)
	t.Cleanup(func() { SetEngine(nil) })
	return eng
}

func TestConfigShowCommand_Defaults(t *testing.T) {
	path := useTempConfig(t, "prefs.plist")

	response := ConfigShowCommand()
	require.Equal(t, "ok", response.Status, response.Error)

	data := response.Data.(ConfigResponse)
	assert.Equal(t, path, data.Path)
	assert.Equal(t, gesture.DefaultConfig(), data.Config)
}

func TestConfigSetCommand_PersistsAndApplies(t *testing.T) {
	useTempConfig(t, "middleclick.ini")
	eng := useEngine(t, gesture.DefaultConfig())

	response := ConfigSetCommand(ConfigSetRequest{Key: gesture.KeyFingers, Value: "4"})
	require.Equal(t, "ok", response.Status, response.Error)
	assert.Equal(t, 4, eng.Config().Fingers, "running engine picks up the change")

	shown := ConfigShowCommand().Data.(ConfigResponse)
	assert.Equal(t, 4, shown.Config.Fingers, "change is persisted")
}

func TestConfigSetCommand_Errors(t *testing.T) {
	useTempConfig(t, "prefs.plist")

	assert.Equal(t, "error", ConfigSetCommand(ConfigSetRequest{}).Status)
	assert.Equal(t, "error", ConfigSetCommand(ConfigSetRequest{Key: "nope", Value: "1"}).Status)
	assert.Equal(t, "error", ConfigSetCommand(ConfigSetRequest{Key: gesture.KeyMaxDistanceDelta, Value: "far"}).Status)
}

func TestConfigResetCommand(t *testing.T) {
	useTempConfig(t, "prefs.plist")
	eng := useEngine(t, gesture.DefaultConfig())

	require.Equal(t, "ok", ConfigSetCommand(ConfigSetRequest{Key: gesture.KeyMaxTimeDelta, Value: "1000"}).Status)
	require.Equal(t, "ok", ConfigResetCommand().Status)

	assert.Equal(t, gesture.DefaultMaxTimeDelta, eng.Config().MaxTimeDelta)
	assert.Equal(t, gesture.DefaultConfig(), ConfigShowCommand().Data.(ConfigResponse).Config)
}

func TestConfigReloadCommand(t *testing.T) {
	useTempConfig(t, "prefs.plist")
	assert.Equal(t, "error", ConfigReloadCommand().Status, "no engine running")

	eng := useEngine(t, gesture.DefaultConfig())
	SetEngine(nil)
	require.Equal(t, "ok", ConfigSetCommand(ConfigSetRequest{Key: gesture.KeyAllowMoreFingers, Value: "true"}).Status)
	SetEngine(eng)
	assert.False(t, eng.Config().AllowMoreFingers)

	require.Equal(t, "ok", ConfigReloadCommand().Status)
	assert.True(t, eng.Config().AllowMoreFingers)
}

func TestIgnoreCommands(t *testing.T) {
	useTempConfig(t, "prefs.plist")

	require.Equal(t, "ok", IgnoreAddCommand(IgnoreRequest{BundleID: "com.example.Game"}).Status)
	require.Equal(t, "ok", IgnoreAddCommand(IgnoreRequest{BundleID: "com.example.Game"}).Status)

	list := IgnoreListCommand().Data.(map[string]interface{})
	assert.Equal(t, []string{"com.example.Game"}, list["ignoredAppBundles"])

	require.Equal(t, "ok", IgnoreRemoveCommand(IgnoreRequest{BundleID: "com.example.Game"}).Status)
	response := IgnoreRemoveCommand(IgnoreRequest{BundleID: "com.example.Game"})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "not in the ignore list")

	assert.Equal(t, "error", IgnoreAddCommand(IgnoreRequest{}).Status)
}

func TestTouchCommands(t *testing.T) {
	assert.Equal(t, "error", TouchCommand(context.Background(), types.TouchEvent{Type: types.TouchDown}).Status)

	useEngine(t, gesture.DefaultConfig())
	ctx := context.Background()

	response := TouchBatchCommand(ctx, TouchBatchRequest{Events: []types.TouchEvent{
		{Type: types.TouchDown, ID: 1, X: 0.1, Y: 0.1, T: 0},
		{Type: types.TouchDown, ID: 2, X: 0.2, Y: 0.1, T: 0},
		{Type: "hover", ID: 9},
		{Type: types.TouchDown, ID: 3, X: 0.3, Y: 0.1, T: 0},
		{Type: types.TouchUp, ID: 1, T: 100},
		{Type: types.TouchUp, ID: 2, T: 100},
	}})
	require.Equal(t, "ok", response.Status, response.Error)
	batch := response.Data.(TouchBatchResponse)
	assert.Len(t, batch.Results, 6)
	assert.Len(t, batch.Errors, 1)
	assert.Contains(t, batch.Errors[0], "event 2")

	response = TouchCommand(ctx, types.TouchEvent{Type: types.TouchUp, ID: 3, T: 100})
	require.Equal(t, "ok", response.Status, response.Error)
	assert.Equal(t, gesture.OutcomeClick, response.Data.(engine.Result).Outcome)

	assert.Equal(t, "error", TouchCommand(ctx, types.TouchEvent{Type: types.TouchMove, X: 2}).Status)
	assert.Equal(t, "error", TouchBatchCommand(ctx, TouchBatchRequest{}).Status)

	stats := StatsCommand().Data.(engine.Stats)
	assert.Equal(t, int64(1), stats.Clicks)

	history := HistoryCommand(HistoryRequest{Limit: 5}).Data.(map[string]interface{})
	assert.Len(t, history["sessions"], 1)
	assert.Equal(t, "error", HistoryCommand(HistoryRequest{Limit: -1}).Status)

	assert.Equal(t, "ok", ResetCommand().Status)
}

const replayFixture = `
# three finger tap, then the same tap with one finger dragged away
{"type":"down","id":1,"x":0.1,"y":0.1,"t":0}
{"type":"down","id":2,"x":0.2,"y":0.1,"t":0}
{"type":"down","id":3,"x":0.3,"y":0.1,"t":0}
{"type":"up","id":1,"t":150}
{"type":"up","id":2,"t":150}
{"type":"up","id":3,"t":150}

{"type":"down","id":1,"x":0.1,"y":0.1,"t":1000}
{"type":"down","id":2,"x":0.2,"y":0.1,"t":1000}
{"type":"down","id":3,"x":0.3,"y":0.1,"t":1000}
{"type":"move","id":2,"x":0.5,"y":0.5,"t":1050}
{"type":"up","id":1,"t":1150}
{"type":"up","id":2,"t":1150}
{"type":"up","id":3,"t":1150}
`

func TestReplayCommand(t *testing.T) {
	cfg := gesture.DefaultConfig()
	response := ReplayCommand(context.Background(), ReplayRequest{
		Input:  strings.NewReader(replayFixture),
		Config: &cfg,
	})
	require.Equal(t, "ok", response.Status, response.Error)

	replay := response.Data.(ReplayResponse)
	assert.Equal(t, 13, replay.Events)
	assert.Equal(t, 1, replay.Clicks)
	require.Len(t, replay.Sessions, 2)
	assert.Equal(t, gesture.OutcomeClick, replay.Sessions[0].Outcome)
	assert.Equal(t, gesture.OutcomeDrag, replay.Sessions[1].Outcome)
}

func TestReplayCommand_UsesStoredConfig(t *testing.T) {
	useTempConfig(t, "prefs.plist")
	require.Equal(t, "ok", ConfigSetCommand(ConfigSetRequest{Key: gesture.KeyFingers, Value: "2"}).Status)

	response := ReplayCommand(context.Background(), ReplayRequest{Input: strings.NewReader(replayFixture)})
	require.Equal(t, "ok", response.Status, response.Error)
	assert.Equal(t, 0, response.Data.(ReplayResponse).Clicks)
}

func TestReplayCommand_Errors(t *testing.T) {
	cfg := gesture.DefaultConfig()

	response := ReplayCommand(context.Background(), ReplayRequest{Input: strings.NewReader("{not json"), Config: &cfg})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "line 1")

	strict := ReplayCommand(context.Background(), ReplayRequest{
		Input:  strings.NewReader(`{"type":"hover","id":1,"t":0}`),
		Config: &cfg,
		Strict: true,
	})
	assert.Equal(t, "error", strict.Status)

	lenient := ReplayCommand(context.Background(), ReplayRequest{
		Input:  strings.NewReader(`{"type":"hover","id":1,"t":0}`),
		Config: &cfg,
	})
	require.Equal(t, "ok", lenient.Status)
	assert.Len(t, lenient.Data.(ReplayResponse).Errors, 1)

	missing := ReplayCommand(context.Background(), ReplayRequest{Path: filepath.Join(t.TempDir(), "nope.jsonl"), Config: &cfg})
	assert.Equal(t, "error", missing.Status)
}

func TestDoctorCommand(t *testing.T) {
	useTempConfig(t, "prefs.plist")

	response := DoctorCommand("test", "")
	require.Equal(t, "ok", response.Status)
	info := response.Data.(DoctorInfo)
	assert.Equal(t, "test", info.MiddleClickVersion)
	assert.False(t, info.ConfigExists)
	assert.NotEmpty(t, info.OS)
}

package launcher

import (
	"strings"
	"testing"

	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleID = "0a838768c250342c90eed02b34b6d66c97fde0c9-1588887004652"

func mustID(t *testing.T, s string) recording.ID {
	t.Helper()
	id, err := recording.ParseID(s)
	require.NoError(t, err)
	return id
}

func TestNewPlan(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	tests := []struct {
		name       string
		stage      recording.Stage
		wantScript string
		wantID     string
	}{
		{
			name:       "process",
			stage:      recording.Process,
			wantScript: "process/capture.rb",
			wantID:     sampleID,
		},
		{
			name:       "publish",
			stage:      recording.Publish,
			wantScript: "publish/capture.rb",
			wantID:     sampleID + "-capture",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewPlan(profile, "/usr/bin/docker", tt.stage, mustID(t, sampleID), 997)

			want := []string{
				"run",
				"--rm",
				"--user", "997",
				"--mount", "type=bind,src=/var/bigbluebutton,dst=/var/bigbluebutton",
				"--mount", "type=bind,src=/var/log/bigbluebutton,dst=/var/log/bigbluebutton",
				"bbb-playback-capture:latest",
				tt.wantScript,
				"-m", tt.wantID,
			}
			args := plan.Args()
			assert.Equal(t, want, args)
			assert.Equal(t, []string{"-m", tt.wantID}, args[len(args)-2:])
			assert.True(t, strings.HasSuffix(args[len(args)-3], tt.stage.String()+"/capture.rb"))

			assert.Equal(t, "/usr/bin/docker", plan.Path())
			assert.Equal(t, "/", plan.Dir())
			assert.Equal(t, 997, plan.UID())
			assert.Equal(t, tt.stage, plan.Stage())
			assert.Equal(t, sampleID, plan.RecordingID().String())
		})
	}
}

func TestPlan_UserIsRealUID(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	plan := NewPlan(profile, "/usr/bin/docker", recording.Process, mustID(t, sampleID), 1000)
	args := plan.Args()
	require.Equal(t, "--user", args[2])
	assert.Equal(t, "1000", args[3])
	assert.NotEqual(t, "0", args[3])
}

func TestPlan_Immutable(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	plan := NewPlan(profile, "/usr/bin/docker", recording.Process, mustID(t, sampleID), 997)
	args := plan.Args()
	args[0] = "exec"
	args[len(args)-1] = "../../etc/shadow"

	fresh := plan.Args()
	assert.Equal(t, "run", fresh[0])
	assert.Equal(t, sampleID, fresh[len(fresh)-1])
}

func TestPlan_EnvAlwaysEmpty(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	plan := NewPlan(profile, "/usr/bin/docker", recording.Publish, mustID(t, sampleID), 997)
	env := plan.Env()
	assert.NotNil(t, env)
	assert.Empty(t, env)
}

func TestPlan_String(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	plan := NewPlan(profile, "/usr/bin/docker", recording.Process, mustID(t, sampleID), 997)
	assert.True(t, strings.HasPrefix(plan.String(), "/usr/bin/docker run --rm --user 997 "))
	assert.True(t, strings.HasSuffix(plan.String(), "process/capture.rb -m "+sampleID))
}

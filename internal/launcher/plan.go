package launcher

import (
	"slices"
	"strconv"
	"strings"

	"github.com/bigbluebutton/bbb-playback-capture-wrapper/internal/recording"
)

// Plan is the complete, read-only description of one runtime invocation.
type Plan struct {
	path  string
	args  []string
	dir   string
	uid   int
	stage recording.Stage
	id    recording.ID
}

// NewPlan builds the runtime command line for stage and id. path is the
// resolved runtime binary and uid the unprivileged identity the container
// runs as.
func NewPlan(p *Profile, path string, stage recording.Stage, id recording.ID, uid int) *Plan {
	args := []string{
		"run",
		"--rm",
		"--user", strconv.Itoa(uid),
		"--mount", BindMount(p.DataDir),
		"--mount", BindMount(p.LogDir),
		p.Image,
		p.ScriptPath(stage.String()),
		p.IDFlag, stage.FormatID(id),
	}

	return &Plan{
		path:  path,
		args:  args,
		dir:   p.WorkDir,
		uid:   uid,
		stage: stage,
		id:    id,
	}
}

// Path returns the runtime binary.
func (p *Plan) Path() string { return p.path }

// Args returns a copy of the runtime arguments, without argv[0].
func (p *Plan) Args() []string { return slices.Clone(p.args) }

// Env returns the child environment, which is always empty.
func (p *Plan) Env() []string { return []string{} }

// Dir returns the child working directory.
func (p *Plan) Dir() string { return p.dir }

// UID returns the user the container runs as.
func (p *Plan) UID() int { return p.uid }

// Stage returns the recording stage.
func (p *Plan) Stage() recording.Stage { return p.stage }

// RecordingID returns the validated recording identifier.
func (p *Plan) RecordingID() recording.ID { return p.id }

// String renders the command line for logging. Arguments are passed to the
// runtime as a vector, never through a shell.
func (p *Plan) String() string {
	return p.path + " " + strings.Join(p.args, " ")
}

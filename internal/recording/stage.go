package recording

import "errors"

// ErrInvalidStage is returned for a stage token other than "process" or "publish".
var ErrInvalidStage = errors.New("invalid recording stage")

// captureSuffix marks the publish-stage capture of a recording.
const captureSuffix = "-capture"

// Stage is the recording stage the capture script runs for. It is sealed: the
// only values are Process and Publish.
type Stage interface {
	// String returns the stage token, which is also the script directory.
	String() string
	// FormatID renders id as the argument the capture script expects.
	FormatID(id ID) string

	sealed()
}

type processStage struct{}

func (processStage) String() string        { return "process" }
func (processStage) FormatID(id ID) string { return id.value }
func (processStage) sealed()               {}

type publishStage struct{}

func (publishStage) String() string        { return "publish" }
func (publishStage) FormatID(id ID) string { return id.value + captureSuffix }
func (publishStage) sealed()               {}

// The two recording stages.
var (
	Process Stage = processStage{}
	Publish Stage = publishStage{}
)

// Stages lists every valid stage.
func Stages() []Stage {
	return []Stage{Process, Publish}
}

// ParseStage maps a stage token to its Stage. Matching is exact and case-sensitive.
func ParseStage(token string) (Stage, error) {
	switch token {
	case "process":
		return Process, nil
	case "publish":
		return Publish, nil
	default:
		return nil, ErrInvalidStage
	}
}

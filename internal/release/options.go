// Package release implements the release management commands: the full
// release pipeline, tagging, and release-branch operations.
package release

// Action is the closed set of release operations. buildSteps dispatches on
// it exhaustively, so every action is statically guaranteed a step list.
type Action int

const (
	ActionRun Action = iota
	ActionTag
	ActionBranchCut
	ActionBranchStage
)

func (a Action) String() string {
	switch a {
	case ActionRun:
		return "RUN"
	case ActionTag:
		return "TAG"
	case ActionBranchCut:
		return "BRANCH_CUT"
	case ActionBranchStage:
		return "BRANCH_STAGE"
	default:
		return "UNKNOWN"
	}
}

// Options carries release state across pipeline steps. It is built once from
// the parsed arguments; Branch and NextVersion are written mid-pipeline
// (Branch by ensureReleaseBranch or createReleaseBranch, NextVersion by
// bumpToNextSnapshot) and read by later steps.
type Options struct {
	Action        Action
	Version       string
	Deploy        bool
	AllowMismatch bool
	Branch        string
	NextVersion   string
}

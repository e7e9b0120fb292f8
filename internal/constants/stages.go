package constants

// Stage names gating which hooks execute in a given invocation.
// These mirror the git hook types latch can be installed for, plus the
// manual stage which only runs when explicitly selected.
const (
	// StagePreCommit is the default stage. Hooks that declare no stages run here.
	StagePreCommit = "pre-commit"

	// StagePrePush runs before pushing commits to a remote.
	StagePrePush = "pre-push"

	// StageCommitMsg runs against the commit message file.
	StageCommitMsg = "commit-msg"

	// StageManual never runs implicitly; it is selected with --manual or
	// --stage manual.
	StageManual = "manual"
)

// DefaultStage is the stage assumed when none is selected and the stage
// assigned to hooks that declare none.
const DefaultStage = StagePreCommit

// KnownStages lists every recognized stage name.
func KnownStages() []string {
	return []string{StagePreCommit, StagePrePush, StageCommitMsg, StageManual}
}

// IsKnownStage reports whether name is a recognized stage.
func IsKnownStage(name string) bool {
	for _, s := range KnownStages() {
		if s == name {
			return true
		}
	}
	return false
}

package constants_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/latch/internal/constants"
)

func TestKnownStages(t *testing.T) {
	stages := constants.KnownStages()
	assert.Contains(t, stages, constants.StagePreCommit)
	assert.Contains(t, stages, constants.StageManual)
	assert.Contains(t, stages, constants.StagePrePush)
	assert.Contains(t, stages, constants.StageCommitMsg)
}

func TestIsKnownStage(t *testing.T) {
	assert.True(t, constants.IsKnownStage("pre-commit"))
	assert.True(t, constants.IsKnownStage("manual"))
	assert.False(t, constants.IsKnownStage("post-merge"))
	assert.False(t, constants.IsKnownStage(""))
}

func TestDefaultStageIsPreCommit(t *testing.T) {
	assert.Equal(t, constants.StagePreCommit, constants.DefaultStage)
}

package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelperKeyNames(t *testing.T) {
	assert.Equal(t, KeySubmissionID, SubmissionID("s1").Key)
	assert.Equal(t, "s1", SubmissionID("s1").Value.String())
	assert.Equal(t, KeyExerciseID, ExerciseID("add").Key)
	assert.Equal(t, KeyTest, Test("test_add").Key)
	assert.Equal(t, KeyMethod, Method("POST").Key)
	assert.Equal(t, int64(200), Status(200).Value.Int64())
}

func TestError_NilSafe(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}

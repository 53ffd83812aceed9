package output_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
)

type failRecorder struct{}

func (failRecorder) Record(*output.Frame) error { return errors.New("record failed") }
func (failRecorder) Close() error               { return errors.New("close failed") }

func TestRecordersContinueAfterFailure(t *testing.T) {
	mem := output.NewMemoryRecorder()
	rs := output.Recorders{failRecorder{}, mem}
	err := rs.Record(&output.Frame{Step: 1})
	assert.ErrorContains(t, err, "record failed")
	assert.Len(t, mem.Frames(), 1)
	assert.ErrorContains(t, rs.Close(), "close failed")
}

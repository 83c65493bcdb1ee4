package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorerNamesAndPrecision(t *testing.T) {
	m, _ := testMaster(3)
	want := []string{"FID", "KID_mean", "KID_std", "IS_mean", "IS_std"}
	scorers := Scorers(m)
	require.Len(t, scorers, len(want))
	for i, s := range scorers {
		assert.Equal(t, want[i], s.Name)
		assert.Equal(t, 1, s.Precision)
	}
}

func TestScorerRejectsNilGroundTruth(t *testing.T) {
	m, _ := testMaster(3)
	assert.Panics(t, func() { FID(m).Evaluate(nil, NewSliceStream(nil)) })
}

func TestScorerDelegatesToMaster(t *testing.T) {
	m, _ := testMaster(3)
	v := FID(m).Evaluate([]string{}, NewSliceStream(nil))
	assert.Zero(t, v)
	_, ok := m.Score(MetricFID, FoldUnset)
	assert.True(t, ok)
}

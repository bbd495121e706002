package records

import (
	"testing"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patients(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRows(
		[]string{"Age.at.diagnosis", "Sex", "Last.known.patient.status", "Region"},
		[][]string{
			{"26 - 45 years", "Male", "Recovered", "North"},
			{"66 - 85 years", "Female", "Dead", "South"},
			{"> 85 years", "Female", "Recovered", "North"},
		})
	require.NoError(t, err)
	return ds
}

func TestBuildAndLookup(t *testing.T) {
	rs, err := Build(patients(t), DefaultFields(), DefaultIDOffset)
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, []int{1000000, 1000001, 1000002}, rs.IDs())
	first, last := rs.Range()
	assert.Equal(t, 1000000, first)
	assert.Equal(t, 1000002, last)

	for i, id := range rs.IDs() {
		r, err := rs.Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, i+DefaultIDOffset, r.ID)
	}

	r, err := rs.Lookup(1000001)
	require.NoError(t, err)
	assert.Equal(t, Record{ID: 1000001, Age: "66 - 85 years", Sex: "Female", Status: "Dead"}, r)
	assert.Equal(t, "PID: 1000001\n\t- age:\t66 - 85 years\n\t- sex:\tFemale\n\t- outcome:\tDead\n", r.String())
}

func TestLookupOutsideRange(t *testing.T) {
	rs, err := Build(patients(t), DefaultFields(), DefaultIDOffset)
	require.NoError(t, err)

	for _, id := range []int{DefaultIDOffset - 1, DefaultIDOffset + 3, 0, -5} {
		_, err := rs.Lookup(id)
		assert.ErrorIs(t, err, common.ErrNotFound, "id %d", id)
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(patients(t), DefaultFields(), 999_999)
	assert.ErrorIs(t, err, common.ErrConfig)

	_, err = Build(patients(t), Fields{Age: "Age", Sex: "Sex", Status: "Last.known.patient.status"}, DefaultIDOffset)
	assert.ErrorIs(t, err, common.ErrSchema)

	_, err = Build(nil, DefaultFields(), DefaultIDOffset)
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestCustomOffsetAndGroup(t *testing.T) {
	rs, err := Build(patients(t), DefaultFields(), 2_000_000)
	require.NoError(t, err)
	assert.Equal(t, DefaultGroup, rs.Group())

	_, err = rs.Lookup(2_000_002)
	assert.NoError(t, err)

	cohort := rs.WithGroup("Cohort A")
	assert.Equal(t, "Cohort A", cohort.Group())
	assert.Equal(t, DefaultGroup, rs.Group())
	assert.Equal(t, rs.IDs(), cohort.IDs())
	assert.Equal(t, DefaultGroup, rs.WithGroup("").Group())
}

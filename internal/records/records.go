// Package records indexes dataset rows by a synthetic patient identifier.
package records

import (
	"fmt"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

// DefaultIDOffset is added to the 0-based row index to form an identifier.
// It is also the smallest offset Build accepts.
const DefaultIDOffset = 1_000_000

// DefaultGroup labels a RecordSet that was never given a group.
const DefaultGroup = "Unknown"

// Fields names the source columns of a Record.
type Fields struct {
	Age    string `mapstructure:"age" yaml:"age"`
	Sex    string `mapstructure:"sex" yaml:"sex"`
	Status string `mapstructure:"status" yaml:"status"`
}

// DefaultFields are the column names of the reference patient dataset.
func DefaultFields() Fields {
	return Fields{Age: "Age.at.diagnosis", Sex: "Sex", Status: "Last.known.patient.status"}
}

// Record is one patient row.
type Record struct {
	ID     int    `json:"id" yaml:"id"`
	Age    string `json:"age" yaml:"age"`
	Sex    string `json:"sex" yaml:"sex"`
	Status string `json:"outcome" yaml:"outcome"`
}

func (r Record) String() string {
	return fmt.Sprintf("PID: %d\n\t- age:\t%s\n\t- sex:\t%s\n\t- outcome:\t%s\n", r.ID, r.Age, r.Sex, r.Status)
}

// RecordSet maps identifiers to records. It is never modified after Build.
type RecordSet struct {
	byID  map[int]Record
	ids   []int
	group string
}

// Build indexes every row of ds; row i gets identifier i+offset.
func Build(ds *dataset.Dataset, fields Fields, offset int) (*RecordSet, error) {
	const op = "records.Build"
	if offset < DefaultIDOffset {
		return nil, common.E(common.ErrConfig, op, "forbidden ID offset %d (minimum %d)", offset, DefaultIDOffset)
	}
	if ds.Empty() {
		return nil, common.E(common.ErrEmptyInput, op, "empty dataset; unable to build records")
	}
	var idx [3]int
	for k, name := range []string{fields.Age, fields.Sex, fields.Status} {
		j, ok := ds.Index(name)
		if !ok {
			return nil, common.E(common.ErrSchema, op, "required column %q not found", name)
		}
		idx[k] = j
	}
	n := ds.NumRows()
	rs := &RecordSet{byID: make(map[int]Record, n), ids: make([]int, 0, n), group: DefaultGroup}
	for i := 0; i < n; i++ {
		id := i + offset
		rs.byID[id] = Record{ID: id, Age: ds.Cell(i, idx[0]), Sex: ds.Cell(i, idx[1]), Status: ds.Cell(i, idx[2])}
		rs.ids = append(rs.ids, id)
	}
	return rs, nil
}

// Lookup returns the record with the given identifier.
func (s *RecordSet) Lookup(id int) (Record, error) {
	r, ok := s.byID[id]
	if !ok {
		return Record{}, common.E(common.ErrNotFound, "records.Lookup", "no patient with ID %d", id)
	}
	return r, nil
}

// Len is the number of records.
func (s *RecordSet) Len() int { return len(s.ids) }

// IDs returns the identifiers in ascending order.
func (s *RecordSet) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Range returns the smallest and largest identifier.
func (s *RecordSet) Range() (first, last int) {
	if len(s.ids) == 0 {
		return 0, 0
	}
	return s.ids[0], s.ids[len(s.ids)-1]
}

// Group is the label attached to the set.
func (s *RecordSet) Group() string { return s.group }

// WithGroup returns a copy of s carrying a different group label.
func (s *RecordSet) WithGroup(group string) *RecordSet {
	if group == "" {
		group = DefaultGroup
	}
	return &RecordSet{byID: s.byID, ids: s.ids, group: group}
}

package dataset

import (
	"testing"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newPeopleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(
		NewIntColumn("age", []int{30, 41, 25}),
		NewFloatColumn("income", []float64{1.5, 2.25, 3}),
		NewCategoryColumn("city", []string{"B", "A", "B"}),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewTable(t *testing.T) {
	tbl := newPeopleTable(t)

	assert.Equal(t, 3, tbl.NRows())
	assert.Equal(t, 3, tbl.NCols())
	assert.Equal(t, []string{"age", "income", "city"}, tbl.Names())
	assert.Equal(t, []Kind{KindInt, KindFloat, KindCategory}, tbl.Kinds())
	assert.Equal(t, []int{2}, tbl.CategoricalPositions())
	assert.Equal(t, 1, tbl.Position("income"))
	assert.Equal(t, -1, tbl.Position("missing"))

	city, ok := tbl.ColumnByName("city")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, city.Levels)
	assert.Equal(t, []float64{1, 0, 1}, city.Values)
	assert.Equal(t, "A", city.Format(1))
}

func TestNewTableErrors(t *testing.T) {
	tests := []struct {
		name string
		cols []*Column
	}{
		{"duplicate", []*Column{NewIntColumn("a", []int{1}), NewIntColumn("a", []int{2})}},
		{"length", []*Column{NewIntColumn("a", []int{1}), NewIntColumn("b", []int{1, 2})}},
		{"bad code", []*Column{{Name: "c", Kind: KindCategory, Values: []float64{3}, Levels: []string{"x"}}}},
		{"nil", []*Column{nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.cols...)
			require.Error(t, err)
			var shapeErr *errors.DataShapeError
			assert.True(t, errors.As(err, &shapeErr))
		})
	}
}

func TestToMatrixAndCSR(t *testing.T) {
	tbl := newPeopleTable(t)

	want := mat.NewDense(3, 3, []float64{
		30, 1.5, 1,
		41, 2.25, 0,
		25, 3, 1,
	})
	assert.True(t, mat.Equal(want, tbl.ToMatrix()))
	assert.True(t, mat.Equal(want, tbl.ToCSR()))
}

func TestTakeFilterDrop(t *testing.T) {
	tbl := newPeopleTable(t)

	taken := tbl.Take([]int{2, 0})
	assert.Equal(t, 2, taken.NRows())
	age, _ := taken.ColumnByName("age")
	assert.Equal(t, []float64{25, 30}, age.Values)

	filtered := tbl.Filter(func(i int) bool { return i != 1 })
	assert.True(t, mat.Equal(taken.Take([]int{1, 0}).ToMatrix(), filtered.ToMatrix()))

	dropped := tbl.Drop("income", "unknown")
	assert.Equal(t, []string{"age", "city"}, dropped.Names())
	assert.Equal(t, 1, dropped.Position("city"))
	// the source table is untouched
	assert.Equal(t, 3, tbl.NCols())
}

func TestAddColumn(t *testing.T) {
	tbl := newPeopleTable(t)

	out, err := tbl.AddColumn(NewIntColumn("flag", []int{0, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, 4, out.NCols())
	assert.Equal(t, 3, out.Position("flag"))

	_, err = tbl.AddColumn(NewIntColumn("flag", []int{0}))
	assert.Error(t, err)
}

func TestCodesViewAndRecords(t *testing.T) {
	tbl := newPeopleTable(t)

	codes := tbl.CodesView()
	assert.Equal(t, []Kind{KindInt, KindFloat, KindInt}, codes.Kinds())
	assert.Equal(t, "1", codes.Column(2).Format(0))

	recs := tbl.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, int64(41), recs[1]["age"])
	assert.Equal(t, 2.25, recs[1]["income"])
	assert.Equal(t, "A", recs[1]["city"])
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Category")
	require.NoError(t, err)
	assert.Equal(t, KindCategory, k)

	_, err = ParseKind("blob")
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestFromMatrix(t *testing.T) {
	tbl := newPeopleTable(t)

	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	m := mat.NewDense(2, 3, []float64{
		33.7, 0.5, 0,
		-2.2, 9, 1,
	})
	out, err := FromMatrix(m, tbl)
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), out.Names())
	assert.Equal(t, tbl.Kinds(), out.Kinds())
	assert.Equal(t, []float64{33, -2}, out.Column(0).Values)
	assert.Equal(t, []string{"A", "B"}, []string{out.Column(2).Format(0), out.Column(2).Format(1)})

	require.Len(t, warned, 1)
	var conv *errors.DataConversionWarning
	require.True(t, errors.As(warned[0], &conv))
	assert.Equal(t, "age", conv.Column)
}

func TestFromMatrixErrors(t *testing.T) {
	tbl := newPeopleTable(t)

	_, err := FromMatrix(mat.NewDense(1, 2, nil), tbl)
	var shapeErr *errors.DataShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 3, shapeErr.Expected)

	_, err = FromMatrix(mat.NewDense(1, 3, []float64{1, 1, 2}), tbl)
	assert.True(t, errors.As(err, &shapeErr), "code 2 is outside the two city levels")

	_, err = FromMatrix(mat.NewDense(1, 3, []float64{1, 1, 0.5}), tbl)
	assert.True(t, errors.As(err, &shapeErr))
}

package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVInference(t *testing.T) {
	in := "age,score,city\n30,1.5,Tokyo\n41,2,Osaka\n25,3,Tokyo\n"

	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindInt, KindFloat, KindCategory}, tbl.Kinds())
	city, _ := tbl.ColumnByName("city")
	assert.Equal(t, []string{"Osaka", "Tokyo"}, city.Levels)
	assert.Equal(t, []float64{1, 0, 1}, city.Values)
}

func TestReadCSVSchema(t *testing.T) {
	in := "zip;plan\n100;gold\n200;basic\n"

	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{
		Delimiter: ';',
		Schema: []ColumnSpec{
			{Name: "zip", Kind: KindCategory},
			{Name: "plan", Kind: KindCategory, Levels: []string{"basic", "gold", "platinum"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindCategory, KindCategory}, tbl.Kinds())
	plan, _ := tbl.ColumnByName("plan")
	assert.Equal(t, []float64{1, 0}, plan.Values)
	assert.Len(t, plan.Levels, 3)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = ReadCSV(strings.NewReader("a,b\n1,\n"), CSVOptions{})
	var shapeErr *errors.DataShapeError
	assert.True(t, errors.As(err, &shapeErr))

	_, err = ReadCSV(strings.NewReader("a\nx\n"), CSVOptions{Schema: []ColumnSpec{{Name: "a", Kind: KindInt}}})
	assert.True(t, errors.As(err, &shapeErr))

	_, err = ReadCSV(strings.NewReader("a\nx\n"), CSVOptions{
		Schema: []ColumnSpec{{Name: "a", Kind: KindCategory, Levels: []string{"y"}}},
	})
	assert.True(t, errors.As(err, &shapeErr))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	in := "age,score,city\n30,1.5,Tokyo\n41,2.25,Osaka\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, 0))
	assert.Equal(t, in, buf.String())
}

func TestWriteCSVDelimiter(t *testing.T) {
	in := "age;city\n30;Tokyo\n41;Osaka\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, ';'))
	assert.Equal(t, in, buf.String())
}

package loader

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"

	"comparador/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSVInfersKinds(t *testing.T) {
	csv := "nombre,edad,folio\nana,34,A1\nluis,28,B2\n,41,C3\n"
	tab, err := Read("pacientes.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, tab.NumRows())
	assert.Equal(t, 3, tab.NumColumns())

	nombre, ok := tab.Column("nombre")
	require.True(t, ok)
	assert.Equal(t, table.KindText, nombre.Kind)
	assert.Equal(t, 1, nombre.NullCount())

	edad, ok := tab.Column("edad")
	require.True(t, ok)
	assert.Equal(t, table.KindNumeric, edad.Kind)
	assert.Equal(t, []float64{34, 28, 41}, edad.Floats())
}

func TestReadSemicolonDelimited(t *testing.T) {
	data := "a;b\n1;x\n2;y\n"
	tab, err := Read("datos.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tab.Header())
	assert.Equal(t, 2, tab.NumRows())
}

func TestQuotedCellsDoNotVoteForDelimiter(t *testing.T) {
	// the semicolons live inside a quoted cell; comma is the separator
	data := "\"estado;region;zona\",casos\nJalisco,10\nSonora,4\n"
	tab, err := Read("datos.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"estado;region;zona", "casos"}, tab.Header())
	assert.Equal(t, 2, tab.NumRows())
}

func TestReadTSVByExtension(t *testing.T) {
	data := "a\tb\n1\tx\n"
	tab, err := Read("datos.tsv", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, tab.NumColumns())
}

func TestRaggedRowsArePadded(t *testing.T) {
	data := "a,b,c\n1,2\n3,4,5,6\n"
	tab, err := Read("ragged.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, tab.NumRows())
	c, ok := tab.Column("c")
	require.True(t, ok)
	assert.Equal(t, 1, c.NullCount())
}

func TestMixedColumnDemotesToText(t *testing.T) {
	data := "codigo\n100\n200\nN/A\n"
	tab, err := Read("mixto.csv", strings.NewReader(data))
	require.NoError(t, err)

	col, ok := tab.Column("codigo")
	require.True(t, ok)
	assert.Equal(t, table.KindText, col.Kind)
	for _, cell := range col.Cells {
		assert.False(t, cell.IsNumeric())
	}
	assert.Equal(t, "100", col.Cells[0].AsString())
}

func TestAllNullColumnIsOther(t *testing.T) {
	data := "a,b\n1,\n2,\n"
	tab, err := Read("huecos.csv", strings.NewReader(data))
	require.NoError(t, err)

	b, ok := tab.Column("b")
	require.True(t, ok)
	assert.Equal(t, table.KindOther, b.Kind)
}

func TestNormalizeHeadersDeduplicatesAndFillsBlanks(t *testing.T) {
	headers := NormalizeHeaders([]string{"id", "", "id", " valor "})
	assert.Equal(t, []string{"id", "col_2", "id_2", "valor"}, headers)
}

func TestNormalizeHeadersSkipsTakenSuffixes(t *testing.T) {
	// a generated suffix may itself already exist in the input
	headers := NormalizeHeaders([]string{"a", "a_2", "a"})
	assert.Equal(t, []string{"a", "a_2", "a_3"}, headers)

	headers = NormalizeHeaders([]string{"a", "a", "a_2", "a"})
	assert.Equal(t, []string{"a", "a_2", "a_2_2", "a_3"}, headers)
}

func TestIdentifierTransliterates(t *testing.T) {
	assert.Equal(t, "ano_de_registro", Identifier("Año de registro"))
	assert.Equal(t, "col", Identifier("  "))
	assert.Equal(t, "monto_mxn", Identifier("Monto (MXN)"))
}

func TestReadGzipUnwraps(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("a,b\n1,x\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	tab, err := Read("datos.csv.gz", &buf)
	require.NoError(t, err)
	assert.Equal(t, "datos.csv", tab.Source)
	assert.Equal(t, 1, tab.NumRows())
}

func TestReadWorkbookFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "ciudad"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "poblacion"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Mérida"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 921000))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "Oaxaca"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", 270000))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tab, err := Read("ciudades.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, 2, tab.NumRows())
	pob, ok := tab.Column("poblacion")
	require.True(t, ok)
	assert.Equal(t, table.KindNumeric, pob.Kind)
}

func TestReadEmptyFileFails(t *testing.T) {
	_, err := Read("vacio.csv", strings.NewReader(""))
	assert.Error(t, err)
}

func TestSupportedFormats(t *testing.T) {
	assert.True(t, Supported("CSV"))
	assert.True(t, Supported("xlsx"))
	assert.True(t, Supported(""))
	assert.False(t, Supported("PDF"))
	assert.False(t, Supported("SHP"))
}

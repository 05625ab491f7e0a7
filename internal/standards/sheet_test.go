package standards

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Grade 6"))
	_, err := f.NewSheet("Grade 7")
	require.NoError(t, err)

	for _, cell := range [][3]string{
		{"A1", "Unit", "Grade 6"},
		{"B1", "Standards", "Grade 6"},
		{"C1", "Students Will Do", "Grade 6"},
		{"A2", "Unit 1", "Grade 6"},
		{"B2", "MS-ESS2-4", "Grade 6"},
		{"C2", "Develop a model of the water cycle.", "Grade 6"},
		{"A3", "Unit 2", "Grade 6"},
		{"B3", "MS-LS1-6", "Grade 6"},
		{"C3", "Construct an explanation of photosynthesis.", "Grade 6"},
		{"A1", "Unit", "Grade 7"},
		{"A2", "Unit 1", "Grade 7"},
		{"B2", "MS-PS1-2", "Grade 7"},
	} {
		require.NoError(t, f.SetCellValue(cell[2], cell[0], cell[1]))
	}

	path := filepath.Join(t.TempDir(), "standards.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLookup(t *testing.T) {
	wb, err := Open(writeTestWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	entry, err := wb.Lookup("Grade 6", "Unit 2")
	require.NoError(t, err)
	assert.Equal(t, "MS-LS1-6", entry.Standards)
	assert.Equal(t, "Construct an explanation of photosynthesis.", entry.WillDo)
}

func TestLookupUnitMatchIgnoresCaseAndSpace(t *testing.T) {
	wb, err := Open(writeTestWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	entry, err := wb.Lookup("Grade 6", "  unit 1 ")
	require.NoError(t, err)
	assert.Equal(t, "MS-ESS2-4", entry.Standards)
}

func TestLookupMissingRowHasEmptyWillDo(t *testing.T) {
	wb, err := Open(writeTestWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	entry, err := wb.Lookup("Grade 7", "Unit 1")
	require.NoError(t, err)
	assert.Equal(t, "MS-PS1-2", entry.Standards)
	assert.Empty(t, entry.WillDo)
}

func TestLookupUnknownUnit(t *testing.T) {
	wb, err := Open(writeTestWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Lookup("Grade 6", "Unit 9")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Unit 9", nf.Unit)
}

func TestLookupUnknownGrade(t *testing.T) {
	wb, err := Open(writeTestWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Lookup("Grade 12", "Unit 1")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Grade 12", nf.Grade)
	assert.Empty(t, nf.Unit)
}

func TestGradesAndUnits(t *testing.T) {
	wb, err := Open(writeTestWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Grade 6", "Grade 7"}, wb.Grades())

	units, err := wb.Units("Grade 6")
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit 1", "Unit 2"}, units)
}

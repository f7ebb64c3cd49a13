package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/internal/domain"
)

var sample = []domain.Product{
	{ID: 1, Name: "Cola", Price: "1.50", IsActive: true, Category: &domain.Category{ID: 1, Name: "Gaseosas"}, Brand: &domain.Brand{ID: 3, Name: "Andina"}},
	{ID: 2, Name: "Agua", Price: "0.80"},
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)
	assert.Equal(t, ".xlsx", f.Extension())
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestProducts_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Products(&buf, CSV, sample))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,price,category,brand,isActive,photo", lines[0])
	assert.Equal(t, "1,Cola,1.50,Gaseosas,Andina,true,", lines[1])
	assert.Equal(t, "2,Agua,0.80,,,false,", lines[2])
}

func TestCategories_CSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Categories(&buf, CSV, nil))
	assert.Equal(t, "id,name,isActive\n", buf.String())
}

func TestUsers_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, CSV, []domain.User{{ID: "u1", Username: "admin", Roles: []domain.Role{domain.RoleAdmin, domain.RoleSales}, IsActive: true}}))
	assert.Contains(t, buf.String(), `u1,admin,,,"admin,sales",true`)
}

func TestProducts_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Products(&buf, XLSX, sample))

	xf, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "name", xf.GetCellValue(sheet, "B1"))
	assert.Equal(t, "Cola", xf.GetCellValue(sheet, "B2"))
	assert.Equal(t, "Agua", xf.GetCellValue(sheet, "B3"))
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", cellName(0, 1))
	assert.Equal(t, "Z3", cellName(25, 3))
	assert.Equal(t, "AA2", cellName(26, 2))
	assert.Equal(t, "AB10", cellName(27, 10))
}

package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelReport(t *testing.T) {
	env := newTestEnv(t)
	learning := env.learning()
	ayse := env.user(t, "ayse")
	mehmet := env.user(t, "mehmet")
	first := env.course(t, ayse, mehmet)
	second := env.course(t, ayse)

	env.finish(t, learning, ayse, first)
	env.pass(t, learning, ayse.ID, first.ID)

	svc := NewReportService(env.courseRepo, env.progressRepo)
	data, err := svc.Excel([]uint{first.ID, second.ID})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)

	// 标题、表头、2 个学员、空行、标题、表头、1 个学员
	require.GreaterOrEqual(t, len(rows), 8)
	assert.Contains(t, rows[0][0], "Forklift Safety")
	assert.Equal(t, reportHeaders, rows[1])

	assert.Equal(t, []string{"ayse Test", "ayse@example.com", "4", "4", "100%", "75", "Tamamlandı"}, rows[2][:7])
	assert.NotEmpty(t, rows[2][7])
	assert.Equal(t, []string{"mehmet Test", "mehmet@example.com", "4", "0", "0%", "-", "Devam Ediyor"}, rows[3][:7])
	assert.Empty(t, rows[4])
	assert.Equal(t, reportHeaders, rows[6])
	assert.Equal(t, "0%", rows[7][4])
}

func TestProgressDashboardAllCourses(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "ayse")
	env.course(t, u)
	env.course(t)

	reports, err := NewReportService(env.courseRepo, env.progressRepo).ProgressDashboard(nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Len(t, reports[0].Users, 1)
	assert.Empty(t, reports[1].Users)
	assert.Nil(t, reports[0].Course.AssignedUsers)
}

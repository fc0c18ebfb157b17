package summary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

func group(art string, rows ...string) models.ArtGroup {
	return models.ArtGroup{Art: art, Rows: rows}
}

func TestSummarizeMonthlySalary(t *testing.T) {
	s := SummarizeGroup(group("070", "070 Månadslön 2025-12-01 - 2025-12-31 33 724,00"))
	require.NotNil(t, s)

	m, ok := s.(*MoneySummary)
	require.True(t, ok)
	assert.Equal(t, "070", m.Art)
	assert.Equal(t, KindMoney, m.Kind)
	assert.Equal(t, "Månadslön", m.Description)
	assert.InDelta(t, 33724.0, m.SEKTotal, 1e-9)
	assert.Equal(t, 1, m.RowsCount)
	assert.Len(t, m.DatesISO, 31)
	assert.Equal(t, "2025-12", m.MonthISO)
}

func TestSummarizeWorkedTime(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		s := SummarizeGroup(group("315", "315 Arbetad tid 2025-12-01 - 2025-12-01 8,00"))
		ts, ok := s.(*TimeSummary)
		require.True(t, ok)
		assert.Equal(t, 480, ts.TotalMinutes)
		assert.Equal(t, []string{"2025-12-01"}, ts.DatesISO)
		assert.Equal(t, "2025-12", ts.MonthISO)
		assert.InDelta(t, 8.0, ts.Hours(), 1e-9)
		assert.Equal(t, map[string]float64{"2025-12-01": 480}, ts.MinutesByDate)
	})

	t.Run("implausible hours are skipped", func(t *testing.T) {
		s := SummarizeGroup(group("315",
			"315 Arbetad tid 2025-12-01 - 2025-12-01 25,00",
			"315 Arbetad tid 2025-12-02 - 2025-12-02 7,50",
		))
		ts, ok := s.(*TimeSummary)
		require.True(t, ok)
		assert.Equal(t, 450, ts.TotalMinutes)
		assert.Equal(t, 1, ts.RowsMatched)
		assert.Equal(t, 2, ts.RowsTotal)
		assert.Equal(t, []string{"2025-12-01", "2025-12-02"}, ts.DatesISO)
	})

	t.Run("next plausible token is used", func(t *testing.T) {
		s := SummarizeGroup(group("315", "315 Arbetad tid 2025-12-01 - 2025-12-01 25,00 8,00"))
		ts, ok := s.(*TimeSummary)
		require.True(t, ok)
		assert.Equal(t, 480, ts.TotalMinutes)
	})

	t.Run("minutes are rounded", func(t *testing.T) {
		s := SummarizeGroup(group("315", "315 Arbetad tid 2025-12-01 - 2025-12-01 7,33"))
		ts, ok := s.(*TimeSummary)
		require.True(t, ok)
		assert.Equal(t, 440, ts.TotalMinutes)
	})

	t.Run("no dates and no hours", func(t *testing.T) {
		assert.Nil(t, SummarizeGroup(group("315", "315 Arbetad tid")))
	})
}

func TestSummarizeCompLeave(t *testing.T) {
	s := SummarizeGroup(group("K3100", "K3100 Kompledighet uttag 2025-12-10 - 2025-12-10 8,00"))
	ts, ok := s.(*TimeSummary)
	require.True(t, ok)
	assert.Equal(t, 480, ts.TotalMinutes)
	assert.Equal(t, "Kompledighet uttag", ts.Description)
}

func TestSummarizeHourlyRate(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		s := SummarizeGroup(group("301", "301 Övertid 2025-12-31 - 2025-12-31 0,25 474,25 118,56"))
		r, ok := s.(*RateSummary)
		require.True(t, ok)
		assert.Equal(t, "Övertid", r.Description)
		assert.InDelta(t, 0.25, r.HoursTotal, 1e-9)
		require.NotNil(t, r.SEKPerHour)
		assert.InDelta(t, 474.25, *r.SEKPerHour, 1e-9)
		require.NotNil(t, r.SEKTotalFromRow)
		assert.InDelta(t, 118.56, *r.SEKTotalFromRow, 1e-9)
		assert.InDelta(t, 118.56, r.SEKTotalComputed, 1e-9)
		assert.Equal(t, 1, r.RowsWithTotal)
		assert.Equal(t, []string{"2025-12-31"}, r.DatesISO)
		assert.Equal(t, "2025-12", r.MonthISO)
	})

	t.Run("diverging rates leave rate unset", func(t *testing.T) {
		s := SummarizeGroup(group("301",
			"301 Övertid 2025-12-30 - 2025-12-30 2,00 474,25 948,50",
			"301 Övertid 2025-12-31 - 2025-12-31 1,50 480,00 720,00",
		))
		r, ok := s.(*RateSummary)
		require.True(t, ok)
		assert.Nil(t, r.SEKPerHour)
		assert.InDelta(t, 3.5, r.HoursTotal, 1e-9)
		assert.InDelta(t, 1668.5, r.SEKTotalComputed, 1e-9)
		require.NotNil(t, r.SEKTotalFromRow)
		assert.InDelta(t, 1668.5, *r.SEKTotalFromRow, 1e-9)
		assert.Equal(t, 2, r.RowsWithTotal)
		assert.Equal(t, 2, r.RowsMatched)
	})

	t.Run("row without total", func(t *testing.T) {
		s := SummarizeGroup(group("301", "301 Övertid 2025-12-31 - 2025-12-31 2,00 474,25"))
		r, ok := s.(*RateSummary)
		require.True(t, ok)
		assert.Nil(t, r.SEKTotalFromRow)
		assert.Equal(t, 0, r.RowsWithTotal)
		assert.InDelta(t, 948.5, r.SEKTotalComputed, 1e-9)
	})

	t.Run("unreadable rows are dropped whole", func(t *testing.T) {
		s := SummarizeGroup(group("301",
			"301 Övertid 2025-12-30 - 2025-12-30 0,25",
			"301 Övertid 2025-12-31 - 2025-12-31 30,00 474,25 14 227,50",
			"301 Övertid 2025-12-29 - 2025-12-29 1,00 474,25 474,25",
		))
		r, ok := s.(*RateSummary)
		require.True(t, ok)
		assert.Equal(t, 1, r.RowsMatched)
		assert.Equal(t, 3, r.RowsTotal)
		assert.Equal(t, []string{"2025-12-29"}, r.DatesISO)
	})

	t.Run("nothing readable", func(t *testing.T) {
		assert.Nil(t, SummarizeGroup(group("301", "301 Övertid 2025-12-30 - 2025-12-30 0,25")))
	})
}

func TestSummarizeDayRate(t *testing.T) {
	s := SummarizeGroup(group("611", "611 Sjukavdrag dag 2-14 2025-12-03 - 2025-12-05 3,00 1 200,00 -3 600,00"))
	d, ok := s.(*DaySummary)
	require.True(t, ok)
	assert.Equal(t, "Sjukavdrag dag 2-14", d.Description)
	assert.InDelta(t, 3.0, d.DaysTotal, 1e-9)
	require.NotNil(t, d.SEKPerDay)
	assert.InDelta(t, 1200.0, *d.SEKPerDay, 1e-9)
	assert.InDelta(t, 3600.0, d.SEKTotalComputed, 1e-9)
	require.NotNil(t, d.SEKTotalFromRow)
	assert.InDelta(t, -3600.0, *d.SEKTotalFromRow, 1e-9)
	assert.Equal(t, []string{"2025-12-03", "2025-12-04", "2025-12-05"}, d.DatesISO)
	assert.Equal(t, map[string]float64{
		"2025-12-03": -1200,
		"2025-12-04": -1200,
		"2025-12-05": -1200,
	}, d.SEKByDate)
}

func TestSummarizeVacation(t *testing.T) {
	s := SummarizeGroup(group("510",
		"510 Semester 2025-07-01 - 2025-07-05",
		"510 Semester 2025-07-04 - 2025-07-08",
		"510 Semester",
	))
	v, ok := s.(*VacationSummary)
	require.True(t, ok)
	assert.Equal(t, 8, v.DaysCount)
	assert.Equal(t, 2, v.RowsMatched)
	assert.Equal(t, 3, v.RowsTotal)
	assert.Equal(t, "2025-07", v.MonthISO)

	assert.Nil(t, SummarizeGroup(group("510", "510 Semester")))
}

func TestSummarizeMoneyTakesLastAmount(t *testing.T) {
	s := SummarizeGroup(group("2101",
		"2101 Maskinskötseltillägg 2025-12-01 - 2025-12-15 10,00 150,00 1 500,00",
		"2101 Maskinskötseltillägg 2025-12-16 - 2025-12-31 500,00",
	))
	m, ok := s.(*MoneySummary)
	require.True(t, ok)
	assert.InDelta(t, 2000.0, m.SEKTotal, 1e-9)
	assert.Equal(t, 2, m.RowsMatched)
	assert.Len(t, m.DatesISO, 31)
}

func TestSummarizeMoneyWithoutRange(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		total float64
		dates int
	}{
		{"no date", "950 Preliminärskatt 1 234,50", 1234.5, 0},
		{"amount before lone date", "950 Preliminärskatt 5 000,00 2026-01-25", 5000, 0},
		{"lone date before amount", "950 Preliminärskatt 2026-01-25 1 234,00", 1234, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := SummarizeGroup(group("950", tt.row)).(*MoneySummary)
			require.True(t, ok)
			assert.InDelta(t, tt.total, m.SEKTotal, 1e-9)
			assert.Equal(t, 1, m.RowsMatched)
			assert.Len(t, m.DatesISO, tt.dates)
		})
	}
}

func TestParseArtRowBlanksLoneDates(t *testing.T) {
	row, ok := ParseArtRow("9190 Utbetalning 2025-12-25 28 114,00")
	require.True(t, ok)
	assert.False(t, row.HasRange())
	assert.Equal(t, []float64{28114}, row.TailNumbers())
}

func TestSummarizeGroupUnknownCode(t *testing.T) {
	assert.Nil(t, SummarizeGroup(group("9999", "9999 Något nytt 100,00")))
	assert.Nil(t, SummarizeGroup(group("070")))
}

func TestDescriptionFallsBackToDictionary(t *testing.T) {
	s := SummarizeGroup(group("9190", "9190 2026-01-01 - 2026-01-31 25 000,00"))
	require.NotNil(t, s)
	assert.Equal(t, "Utbetalning", s.Info().Description)
}

func TestSummaryJSONShape(t *testing.T) {
	s := SummarizeGroup(group("301", "301 Övertid 2025-12-31 - 2025-12-31 2,00 474,25 480,00"))
	require.NotNil(t, s)

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "301", got["art"])
	assert.Equal(t, "hourly_rate", got["kind"])
	assert.Contains(t, got, "sekPerHour")
	assert.Contains(t, got, "sekTotalFromRow")
	assert.Contains(t, got, "hoursByDate")
}

package relay

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// renderStudentsTable prints query result rows as an ASCII table.
func renderStudentsTable(out io.Writer, students []studentRow) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{
		"ID", "Gender", "Level", "Country", "Platform",
		"Age", "Daily Hours", "Mental Health", "Addicted",
	})

	for _, s := range students {
		table.Append([]string{
			strconv.FormatInt(s.ID, 10),
			s.Gender,
			s.AcademicLevel,
			s.CountryName,
			s.Platform,
			strconv.Itoa(s.Age),
			strconv.Itoa(s.AvgDailyUsage),
			strconv.Itoa(s.MentalHealthScore),
			strconv.Itoa(s.AddictedScore),
		})
	}

	table.Render()
}

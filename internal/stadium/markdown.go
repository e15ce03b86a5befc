package stadium

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderMarkdown renders the human-readable status page: a "Missing" table
// followed by a "Found" table.
func RenderMarkdown(m *Manifest) string {
	var b strings.Builder

	b.WriteString("# Stadium Images Status\n\n")
	fmt.Fprintf(&b, "Drop images in `%s/` named by the **slug** below. Any of `.jpg`, `.png`, `.webp` works.\n\n", m.StadiumDir)

	b.WriteString("## Missing\n\n")
	if len(m.Missing) == 0 {
		b.WriteString("_None missing, every venue has an image._\n")
	} else {
		rows := make([]table.Row, 0, len(m.Missing))
		for _, v := range m.Missing {
			want := m.StadiumDir + "/" + v.SuggestedFilenames[0]
			rows = append(rows, table.Row{orEmpty(v.ExampleGame), v.LocationRaw, code(want)})
		}
		b.WriteString(markdownTable(table.Row{"Opponent (example)", "City / Stadium", "File to add"}, rows))
	}

	b.WriteString("\n## Found\n\n")
	if len(m.Found) == 0 {
		b.WriteString("_No stadium images found yet._\n")
	} else {
		rows := make([]table.Row, 0, len(m.Found))
		for _, v := range m.Found {
			have := make([]string, 0, len(v.FilesPresent))
			for _, f := range v.FilesPresent {
				have = append(have, code(f))
			}
			rows = append(rows, table.Row{orEmpty(v.ExampleGame), v.LocationRaw, strings.Join(have, ", ")})
		}
		b.WriteString(markdownTable(table.Row{"Opponent (example)", "City / Stadium", "Files present"}, rows))
	}

	return b.String()
}

func markdownTable(header table.Row, rows []table.Row) string {
	tw := table.NewWriter()
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	return tw.RenderMarkdown() + "\n"
}

func code(s string) string {
	return "`" + s + "`"
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package schema

import (
	"strings"

	"github.com/querypilot/querypilot/core/domain"
)

// Format renders a metadata snapshot as compact prompt text, one line
// per table:
//
//	db.table: id int [key], name varchar(255), deleted_at datetime [null]
//
// Key and nullability markers give the model enough structure to pick
// join columns without inflating the token count.
func Format(meta *domain.DatabaseMetadata) string {
	var b strings.Builder
	for _, table := range meta.Tables {
		b.WriteString(meta.Name)
		b.WriteString(".")
		b.WriteString(table.Name)
		b.WriteString(": ")
		for i, col := range table.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col.Name)
			b.WriteString(" ")
			b.WriteString(col.Type)
			if col.IsKey {
				b.WriteString(" [key]")
			}
			if col.Nullable {
				b.WriteString(" [null]")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

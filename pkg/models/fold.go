package models

import (
	"context"

	"github.com/uptrace/bun"
	"golang.org/x/text/cases"
)

// foldedColumns maps searchable columns to the columns holding their folded
// form. Searches run LIKE against the folded columns, since SQLite's LIKE only
// ignores case for ASCII.
var foldedColumns = map[string]string{
	"title":       "title_folded",
	"description": "description_folded",
	"name":        "name_folded",
	"email":       "email_folded",
}

// FoldForSearch returns the Unicode case-folded form of s.
func FoldForSearch(s string) string {
	return cases.Fold().String(s)
}

// WithFoldedColumns appends the folded counterpart of every searchable column
// in columns, so partial updates keep them in step.
func WithFoldedColumns(columns []string) []string {
	out := make([]string, 0, len(columns)*2)
	out = append(out, columns...)
	for _, c := range columns {
		if folded, ok := foldedColumns[c]; ok {
			out = append(out, folded)
		}
	}
	return out
}

func foldPtr(s *string) string {
	if s == nil {
		return ""
	}
	return FoldForSearch(*s)
}

var (
	_ bun.BeforeAppendModelHook = (*Movie)(nil)
	_ bun.BeforeAppendModelHook = (*Person)(nil)
)

func (m *Movie) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		m.TitleFolded = FoldForSearch(m.Title)
		m.DescriptionFolded = foldPtr(m.Description)
	}
	return nil
}

func (p *Person) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		p.NameFolded = FoldForSearch(p.Name)
		p.EmailFolded = FoldForSearch(p.Email)
	}
	return nil
}

package search

import (
	"strings"

	"github.com/marqueehq/marquee/pkg/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into a LIKE pattern that matches the text
// anywhere in a folded search column (see models.FoldForSearch). LIKE
// wildcards in the input are escaped, so the pattern must be used together
// with ESCAPE '\'. An empty result means there is nothing to search for.
func ContainsPattern(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(models.FoldForSearch(input)) + "%"
}

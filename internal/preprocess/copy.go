package preprocess

import (
	"regexp"

	"cobolfront/internal/copybook"
	"cobolfront/internal/source"
)

const copyName = `"([^"\n]*)"|'([^'\n]*)'|([A-Za-z0-9_-]+)`

var copyStatement = regexp.MustCompile(`(?i)\bCOPY\s+(?:` + copyName + `)` +
	`(?:\s+(?:OF|IN)\s+(?:"[^"\n]*"|'[^'\n]*'|[A-Za-z0-9_-]+))?` +
	`(?:\s+SUPPRESS)?` +
	`(?:\s+REPLACING\s[^.]*)?` +
	`\s*\.`)

// FindCopyStatements returns the plain COPY statements of text. Statements
// may span lines. The library of `OF lib` is accepted but not used for
// lookup; REPLACING clauses are accepted and not applied.
func FindCopyStatements(text string) []copybook.Site {
	matches := copyStatement.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	idx := source.NewLineIndex(text)
	sites := make([]copybook.Site, 0, len(matches))
	for _, m := range matches {
		// одна из трёх групп имени: "..." , '...' или голое имя
		g := 2
		for g < 8 && m[g] < 0 {
			g += 2
		}
		start, end := m[g], m[g+1]
		sites = append(sites, copybook.Site{
			Name:      copybook.NewName(text[start:end]),
			NameRange: idx.Range(start, end),
			Statement: idx.Range(m[0], m[1]),
		})
	}
	return sites
}

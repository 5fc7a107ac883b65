// Package syntax holds the few node shapes dialect passes hand to later
// analysis. Full COBOL trees live elsewhere.
package syntax

import (
	"fmt"

	"cobolfront/internal/source"
)

// Kind tells what a node stands for.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindCopyStatement is a COPY-like statement of a dialect.
	KindCopyStatement
	// KindCopybookUsage marks the name inside such a statement.
	KindCopybookUsage
	// KindDialectStatement is any other statement a dialect recognised.
	KindDialectStatement
)

func (k Kind) String() string {
	switch k {
	case KindCopyStatement:
		return "copy-statement"
	case KindCopybookUsage:
		return "copybook-usage"
	case KindDialectStatement:
		return "dialect-statement"
	}
	return "invalid"
}

// Node is one fact a dialect produced. Location is always in original
// coordinates.
type Node struct {
	Kind     Kind
	Name     string
	Dialect  string
	Location source.Location
}

func (n Node) String() string {
	return fmt.Sprintf("%s %s [%s] %s", n.Kind, n.Name, n.Dialect, n.Location)
}

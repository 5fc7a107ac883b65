package mapping

import "cobolfront/internal/source"

// Cell is one character of a Text together with its provenance.
//
// Characters copied from source keep Original. Characters synthesised by an
// edit have no Original and point at the edit through Site.
type Cell struct {
	Value       rune
	Original    source.Position
	HasOriginal bool
	Owner       string
	Site        *source.Location
}

func originalCell(value rune, pos source.Position, owner string) Cell {
	return Cell{Value: value, Original: pos, HasOriginal: true, Owner: owner}
}

func syntheticCell(value rune, site *source.Location, owner string) Cell {
	return Cell{Value: value, Owner: owner, Site: site}
}

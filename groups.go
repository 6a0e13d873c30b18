package fontmeta

import (
	"unicode"
)

// CharacterGroup is a set of code points sharing a Unicode general category.
type CharacterGroup struct {
	Name  string
	Runes []rune
}

type groupDefinition struct {
	name   string
	tables []*unicode.RangeTable
}

// groupDefinitions are matched in order, the first match wins. Code points matching none are Other Symbols.
var groupDefinitions = []groupDefinition{
	{"Numbers", []*unicode.RangeTable{unicode.Number}},
	{"Punctuation", []*unicode.RangeTable{unicode.Punct}},
	{"Marks", []*unicode.RangeTable{unicode.Mark}},
	{"Currency", []*unicode.RangeTable{unicode.Sc}},
	{"Math symbols", []*unicode.RangeTable{unicode.Sm}},
	{"Uppercase Letters", []*unicode.RangeTable{unicode.Lu}},
	{"Lowercase Letters", []*unicode.RangeTable{unicode.Ll}},
}

const otherSymbols = "Other Symbols"

func groupIndex(r rune) int {
	for i, def := range groupDefinitions {
		if unicode.IsOneOf(def.tables, r) {
			return i
		}
	}
	return len(groupDefinitions)
}

// GroupName returns the name of the character group of a code point.
func GroupName(r rune) string {
	if i := groupIndex(r); i < len(groupDefinitions) {
		return groupDefinitions[i].name
	}
	return otherSymbols
}

// GroupCharacters sorts the code points of the ranges into character groups. Groups are returned in a fixed order and empty groups are left out.
func GroupCharacters(urs UnicodeRanges) []CharacterGroup {
	groups := make([]CharacterGroup, len(groupDefinitions)+1)
	for i, def := range groupDefinitions {
		groups[i].Name = def.name
	}
	groups[len(groupDefinitions)].Name = otherSymbols

	urs.Runes(func(r rune) bool {
		i := groupIndex(r)
		groups[i].Runes = append(groups[i].Runes, r)
		return true
	})

	nonEmpty := groups[:0]
	for _, group := range groups {
		if 0 < len(group.Runes) {
			nonEmpty = append(nonEmpty, group)
		}
	}
	return nonEmpty
}

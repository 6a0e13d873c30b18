package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/pterm/pterm"
	"github.com/tdewolff/fontmeta"
)

var nameLabels = map[uint16]string{
	fontmeta.NameCopyright:         "Copyright",
	fontmeta.NameFamily:            "Family",
	fontmeta.NameSubfamily:         "Subfamily",
	fontmeta.NameUniqueID:          "Unique ID",
	fontmeta.NameFull:              "Full name",
	fontmeta.NameVersion:           "Version",
	fontmeta.NamePostScript:        "PostScript name",
	fontmeta.NameTypographicFamily: "Typographic family",
}

func printFont(index int, font fontmeta.Font, ranges bool) {
	pterm.Info.Printf("Font %d: %s\n", index, font.DisplayName())

	ids := make([]int, 0, len(font.Names))
	for id := range font.Names {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	data := pterm.TableData{{"Name ID", "Name", "Value"}}
	for _, id := range ids {
		label, ok := nameLabels[uint16(id)]
		if !ok {
			label = "-"
		}
		data = append(data, []string{fmt.Sprint(id), label, font.Names[uint16(id)]})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	data = pterm.TableData{
		{"Property", "Value"},
		{"Weight", fmt.Sprint(font.Weight)},
		{"Stretch", fmt.Sprint(font.Stretch)},
		{"Italic", fmt.Sprint(font.Italic)},
		{"Glyphs", fmt.Sprint(font.GlyphCount)},
		{"Code points", fmt.Sprintf("%d in %d ranges", font.UnicodeRanges.Len(), len(font.UnicodeRanges))},
	}
	for _, group := range fontmeta.GroupCharacters(font.UnicodeRanges) {
		data = append(data, []string{group.Name, fmt.Sprint(len(group.Runes))})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if font.IsVariable {
		data = pterm.TableData{{"Axis", "Min", "Default", "Max"}}
		for _, axis := range font.VariationAxes {
			data = append(data, []string{axis.Tag, formatFloat(axis.MinValue), formatFloat(axis.DefValue), formatFloat(axis.MaxValue)})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	if ranges {
		pterm.Println(font.UnicodeRanges.String())
	}
}

func formatFloat(f float32) string {
	return fmt.Sprintf("%g", f)
}

func formatBytes(size uint64) string {
	if size < 10 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"B", "kB", "MB", "GB", "TB", "PB", "EB"}
	scale := int(math.Floor((math.Log10(float64(size)) + math.Log10(2.0)) / 3.0))
	value := float64(size) / math.Pow10(scale*3.0)
	format := "%.0f %s"
	if value < 10.0 {
		format = "%.1f %s"
	}
	return fmt.Sprintf(format, value, units[scale])
}

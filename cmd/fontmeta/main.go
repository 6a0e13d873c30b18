package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/fontmeta"
	"github.com/tdewolff/fontmeta/sfnt"
)

var (
	Error   *log.Logger
	Warning *log.Logger
)

func main() {
	Error = log.New(os.Stderr, "ERROR: ", 0)
	Warning = log.New(os.Stderr, "WARNING: ", 0)

	table := false
	ranges := false
	css := false
	quiet := false
	limit := "FFFF"
	concurrency := 1
	var input string

	cmd := argp.New("Extract metadata from TTF/OTF/WOFF/WOFF2/EOT/TTC/OTC font files")
	cmd.AddOpt(&table, "t", "table", "Print a table per font instead of JSON.")
	cmd.AddOpt(&ranges, "r", "ranges", "Print the covered Unicode ranges with --table.")
	cmd.AddOpt(&css, "", "css", "Print a CSS unicode-range descriptor per font.")
	cmd.AddOpt(&quiet, "q", "quiet", "Suppress output except for errors.")
	cmd.AddOpt(&limit, "l", "limit", "Highest code point in hexadecimal to check for coverage, eg. 10FFFF.")
	cmd.AddOpt(&concurrency, "j", "jobs", "Number of fonts in a collection to process in parallel.")
	cmd.AddArg(&input, "input", "Input font file.")
	cmd.Parse()

	if quiet {
		Warning = log.New(ioutil.Discard, "", 0)
	}

	scanLimit, err := parseLimit(limit)
	if err != nil {
		Error.Println(err)
		os.Exit(1)
	}

	b, err := readFile(input)
	if err != nil {
		Error.Println(err)
		os.Exit(1)
	}

	mediatype, err := sfnt.MediaType(b)
	if err != nil {
		Warning.Println(err)
	}

	extractor := fontmeta.NewExtractor(fontmeta.WithScanLimit(scanLimit), fontmeta.WithConcurrency(concurrency))
	defs := extractor.Extract(b)
	if len(defs) == 0 {
		Warning.Println("no usable fonts found")
	}

	if css {
		for _, font := range defs {
			fmt.Printf("@font-face{font-family:%q;unicode-range:%s}\n", font.DisplayName(), font.UnicodeRanges.CSS())
		}
	} else if table {
		pterm.Printf("File: %s (%s, %s)\n", input, mediatype, formatBytes(uint64(len(b))))
		for i, font := range defs {
			pterm.Println()
			printFont(i, font, ranges)
		}
	} else {
		out, err := json.MarshalIndent(fontmeta.Shape(defs), "", "  ")
		if err != nil {
			Error.Println(err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	}
}

func parseLimit(s string) (rune, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "U+"), "u+")
	limit, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point limit: %s", s)
	} else if uint64(fontmeta.MaxRune) < limit {
		return 0, fmt.Errorf("code point limit out of range: %s", s)
	}
	return rune(limit), nil
}

func readFile(filename string) ([]byte, error) {
	var err error
	var r *os.File
	if filename == "" || filename == "-" {
		r = os.Stdin
	} else if r, err = os.Open(filename); err != nil {
		return nil, err
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		r.Close()
		return nil, err
	} else if err := r.Close(); err != nil {
		return nil, err
	}
	return b, nil
}

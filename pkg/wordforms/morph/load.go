package morph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/klauspost/compress/gzip"

	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
)

const maxLineSize = 1 << 20

// LoadOpenCorpora reads a dictionary in the OpenCorpora plain-text format:
//
//	1
//	ЁЖ	NOUN,anim,masc sing,nomn
//	ЕЖА	NOUN,anim,masc sing,gent
//
//	2
//	...
//
// Each numbered block is one lemma; its first form is the normal form. Forms
// are lowercased. Parses get no score, so homographs rank in file order.
//
// The text export has no links between lemmas, so verb forms, participles,
// gerunds, short and comparative adjectives keep the first form of their own
// block as normal form. LoadOpenCorporaXML reads the full dump and merges them.
func LoadOpenCorpora(r io.Reader) (*Dictionary, error) {
	dict := NewDictionary()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lemma := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			lemma = ""
			continue
		}
		if isBlockID(line) {
			lemma = ""
			continue
		}

		form, grammemes, ok := strings.Cut(line, "\t")
		if !ok || strings.TrimSpace(form) == "" {
			return nil, fmt.Errorf("opencorpora line %d: malformed form line %q: %w",
				lineNo, line, internalerr.ErrDictionary)
		}
		form = strings.TrimSpace(form)
		if lemma == "" {
			lemma = form
		}

		pos, tags := ParseGrammemes(grammemes)
		dict.Add(Parse{Word: form, Lemma: lemma, POS: pos, Tags: tags})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("opencorpora read: %v: %w", err, internalerr.ErrDictionary)
	}
	return dict, nil
}

func isBlockID(line string) bool {
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// LoadTSV reads a compact dictionary with one parse per line:
//
//	word<TAB>lemma<TAB>grammemes[<TAB>score]
//
// Blank lines and lines starting with '#' are skipped. Grammemes use the
// OpenCorpora notation ("NOUN,inan,masc sing,nomn"); the first one is the
// part of speech.
func LoadTSV(r io.Reader) (*Dictionary, error) {
	dict := NewDictionary()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("tsv line %d: want 3 or 4 fields, got %d: %w",
				lineNo, len(parts), internalerr.ErrDictionary)
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("tsv line %d: empty word or lemma: %w", lineNo, internalerr.ErrDictionary)
		}

		p := Parse{Word: parts[0], Lemma: parts[1]}
		p.POS, p.Tags = ParseGrammemes(parts[2])
		if len(parts) == 4 && parts[3] != "" {
			score, err := strconv.ParseFloat(parts[3], 64)
			if err != nil {
				return nil, fmt.Errorf("tsv line %d: bad score %q: %w", lineNo, parts[3], internalerr.ErrDictionary)
			}
			p.Score = score
		}
		dict.Add(p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tsv read: %v: %w", err, internalerr.ErrDictionary)
	}
	return dict, nil
}

// LoadFile loads a text dictionary, choosing the format by file name:
// a ".gz" suffix is decompressed first, then ".tsv" selects LoadTSV, ".xml"
// selects LoadOpenCorporaXML and anything else is read as OpenCorpora text.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %v: %w", err, internalerr.ErrDictionary)
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %v: %w", path, err, internalerr.ErrDictionary)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(name, ".gz")
	}

	switch {
	case strings.HasSuffix(name, ".tsv"):
		return LoadTSV(r)
	case strings.HasSuffix(name, ".xml"):
		return LoadOpenCorporaXML(r)
	}
	return LoadOpenCorpora(r)
}

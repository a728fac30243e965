package morph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
)

// MergedLinkTypes are the OpenCorpora link types whose target lemma is
// folded into its source: personal verb forms, participles and gerunds
// normalize to the infinitive, short and comparative adjectives to the full
// adjective, short participles to the full participle.
var MergedLinkTypes = []string{
	"ADJF-ADJS",
	"ADJF-COMP",
	"INFN-VERB",
	"INFN-PRTF",
	"INFN-GRND",
	"PRTF-PRTS",
}

type xmlGrammeme struct {
	V string `xml:"v,attr"`
}

type xmlForm struct {
	T string        `xml:"t,attr"`
	G []xmlGrammeme `xml:"g"`
}

type xmlLemma struct {
	ID    int       `xml:"id,attr"`
	Head  xmlForm   `xml:"l"`
	Forms []xmlForm `xml:"f"`
}

type xmlLinkType struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:",chardata"`
}

type xmlLink struct {
	From int `xml:"from,attr"`
	To   int `xml:"to,attr"`
	Type int `xml:"type,attr"`
}

// LoadOpenCorporaXML reads the full OpenCorpora dump (dict.opcorpora.xml).
// Unlike the plain-text export it carries the links between lemmas, so the
// normal form of a linked lemma is the head of its chain of
// MergedLinkTypes: читал and читающий both normalize to читать.
//
// Parses are added in lemma order, forms in block order.
func LoadOpenCorporaXML(r io.Reader) (*Dictionary, error) {
	var (
		lemmas    []xmlLemma
		linkTypes = make(map[int]string)
		links     []xmlLink
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opencorpora xml: %v: %w", err, internalerr.ErrDictionary)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "lemma":
			var l xmlLemma
			if err := dec.DecodeElement(&l, &start); err != nil {
				return nil, fmt.Errorf("opencorpora xml lemma: %v: %w", err, internalerr.ErrDictionary)
			}
			lemmas = append(lemmas, l)
		case "type":
			var lt xmlLinkType
			if err := dec.DecodeElement(&lt, &start); err != nil {
				return nil, fmt.Errorf("opencorpora xml link type: %v: %w", err, internalerr.ErrDictionary)
			}
			linkTypes[lt.ID] = lt.Name
		case "link":
			var l xmlLink
			if err := dec.DecodeElement(&l, &start); err != nil {
				return nil, fmt.Errorf("opencorpora xml link: %v: %w", err, internalerr.ErrDictionary)
			}
			links = append(links, l)
		}
	}

	merged := make(map[string]bool, len(MergedLinkTypes))
	for _, name := range MergedLinkTypes {
		merged[name] = true
	}
	parent := make(map[int]int)
	for _, l := range links {
		if merged[linkTypes[l.Type]] && l.From != l.To {
			parent[l.To] = l.From
		}
	}

	heads := make(map[int]string, len(lemmas))
	for _, l := range lemmas {
		heads[l.ID] = l.Head.T
	}

	dict := NewDictionary()
	for _, l := range lemmas {
		if l.Head.T == "" {
			return nil, fmt.Errorf("opencorpora xml lemma %d: empty normal form: %w", l.ID, internalerr.ErrDictionary)
		}
		normal := heads[rootOf(l.ID, parent, heads)]
		for _, f := range l.Forms {
			if f.T == "" {
				continue
			}
			grammemes := make([]string, 0, len(l.Head.G)+len(f.G))
			for _, g := range l.Head.G {
				grammemes = append(grammemes, g.V)
			}
			for _, g := range f.G {
				grammemes = append(grammemes, g.V)
			}
			p := Parse{Word: f.T, Lemma: normal}
			if len(grammemes) > 0 {
				p.POS = POS(grammemes[0])
				if len(grammemes) > 1 {
					p.Tags = grammemes[1:]
				}
			}
			dict.Add(p)
		}
	}
	return dict, nil
}

// rootOf follows merge links up to the head lemma. Links to lemmas missing
// from the dump and cycles stop the walk.
func rootOf(id int, parent map[int]int, heads map[int]string) int {
	seen := map[int]bool{id: true}
	for {
		next, ok := parent[id]
		if !ok || seen[next] {
			return id
		}
		if _, known := heads[next]; !known {
			return id
		}
		seen[next] = true
		id = next
	}
}

package morph

import (
	"context"
	"testing"
)

func TestDictionaryLookupLowercases(t *testing.T) {
	d := NewDictionary()
	d.Add(Parse{Word: "КОШКИ", Lemma: "КОШКА", POS: Noun})

	parses := d.Lookup("Кошки")
	if len(parses) != 1 {
		t.Fatalf("Lookup returned %d parses, want 1", len(parses))
	}
	if parses[0].Word != "кошки" || parses[0].Lemma != "кошка" {
		t.Errorf("unexpected parse %+v", parses[0])
	}
}

func TestDictionaryRanking(t *testing.T) {
	d := NewDictionary()
	d.Add(Parse{Word: "стали", Lemma: "сталь", POS: Noun, Score: 0.2})
	d.Add(Parse{Word: "стали", Lemma: "стать", POS: Verb, Score: 0.7})
	d.Add(Parse{Word: "стали", Lemma: "сталь", POS: Noun, Tags: []string{"plur"}, Score: 0.2})
	d.Add(Parse{Word: "стали", Lemma: "стальной", POS: AdjShort})

	parses, err := d.Parse(context.Background(), "стали")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parses) != 4 {
		t.Fatalf("got %d parses, want 4", len(parses))
	}
	if parses[0].Lemma != "стать" {
		t.Errorf("top parse lemma = %q, want стать", parses[0].Lemma)
	}
	// Equal scores keep insertion order.
	if len(parses[1].Tags) != 0 || len(parses[2].Tags) != 1 {
		t.Errorf("ties not in insertion order: %+v", parses[1:3])
	}
	if parses[3].Lemma != "стальной" {
		t.Errorf("lowest parse lemma = %q, want стальной", parses[3].Lemma)
	}
}

func TestDictionaryYoFolding(t *testing.T) {
	d := NewDictionary()
	d.Add(Parse{Word: "ещё", Lemma: "ещё", POS: Adverb})
	d.Add(Parse{Word: "елка", Lemma: "елка", POS: Noun})

	if got := d.Lookup("еще"); len(got) != 1 || got[0].Lemma != "ещё" {
		t.Errorf("Lookup(еще) = %+v, want the ещё entry", got)
	}
	if got := d.Lookup("ёлка"); len(got) != 1 || got[0].Lemma != "елка" {
		t.Errorf("Lookup(ёлка) = %+v, want the елка entry", got)
	}
	if got := d.Lookup("ещё"); len(got) != 1 {
		t.Errorf("exact lookup failed: %+v", got)
	}
}

func TestDictionaryExactBeatsFolded(t *testing.T) {
	d := NewDictionary()
	d.Add(Parse{Word: "все", Lemma: "весь", POS: AdjFull})
	d.Add(Parse{Word: "всё", Lemma: "всё", POS: Pronoun})

	if got := d.Lookup("все"); len(got) != 1 || got[0].Lemma != "весь" {
		t.Errorf("Lookup(все) = %+v, want only the exact entry", got)
	}
}

func TestDictionaryUnknownWord(t *testing.T) {
	d := NewDictionary()
	parses, err := d.Parse(context.Background(), "неизвестное")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parses) != 0 {
		t.Errorf("expected no parses, got %v", parses)
	}
}

func TestDictionaryLookupReturnsCopies(t *testing.T) {
	d := NewDictionary()
	d.Add(Parse{Word: "дом", Lemma: "дом", POS: Noun, Tags: []string{"inan"}})

	got := d.Lookup("дом")
	got[0].Lemma = "испорчено"
	got[0].Tags[0] = "испорчено"

	again := d.Lookup("дом")
	if again[0].Lemma != "дом" || again[0].Tags[0] != "inan" {
		t.Errorf("dictionary mutated through Lookup result: %+v", again[0])
	}
}

func TestDictionaryStatsAndEntries(t *testing.T) {
	d := NewDictionary()
	d.Add(Parse{Word: "дом", Lemma: "дом", POS: Noun})
	d.Add(Parse{Word: "дома", Lemma: "дом", POS: Noun})
	d.Add(Parse{Word: "дома", Lemma: "дома", POS: Adverb})

	stats := d.Stats()
	if stats.Parses != 3 || stats.Forms != 2 || stats.Lemmas != 2 {
		t.Errorf("Stats() = %+v, want 3 parses, 2 forms, 2 lemmas", stats)
	}

	entries := d.Entries()
	if len(entries) != 3 || entries[0].Word != "дом" || entries[2].Lemma != "дома" {
		t.Errorf("Entries() not in insertion order: %+v", entries)
	}
}

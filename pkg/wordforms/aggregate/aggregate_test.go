package aggregate

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/cognicore/wordforms/pkg/wordforms/morph"
	"github.com/cognicore/wordforms/pkg/wordforms/stoplist"
)

// scripted is an analyzer double returning canned parses.
type scripted struct {
	parses map[string][]morph.Parse
	calls  map[string]int
	err    error
}

func newScripted() *scripted {
	return &scripted{parses: map[string][]morph.Parse{}, calls: map[string]int{}}
}

func (s *scripted) on(word string, parses ...morph.Parse) *scripted {
	s.parses[word] = parses
	return s
}

func (s *scripted) Parse(_ context.Context, word string) ([]morph.Parse, error) {
	s.calls[word]++
	if s.err != nil {
		return nil, s.err
	}
	return s.parses[word], nil
}

func p(lemma string, pos morph.POS) morph.Parse {
	return morph.Parse{Lemma: lemma, POS: pos}
}

func TestAddVerdicts(t *testing.T) {
	an := newScripted().
		on("кошки", p("кошка", morph.Noun)).
		on("на", p("на", morph.Preposition)).
		on("и", p("и", morph.Conjunction)).
		on("же", p("же", morph.Particle)).
		on("ах", p("ах", morph.Interjection)).
		on("шум", p("шум1", morph.Noun)).
		on("ой", p("o", morph.Noun))

	agg := New(Options{Analyzer: an})
	ctx := context.Background()

	tests := []struct {
		token string
		want  Verdict
	}{
		{"кошки", Accepted},
		{"на", RejectedFunctional},
		{"и", RejectedFunctional},
		{"же", RejectedFunctional},
		{"ах", RejectedFunctional},
		{"неведомое", RejectedNoParse},
		{"шум", RejectedLemma},
		{"ой", RejectedLemma},
		{"слово٣", RejectedDigit},
		{"год2024", RejectedDigit},
	}
	for _, tt := range tests {
		got, err := agg.Add(ctx, tt.token)
		if err != nil {
			t.Fatalf("Add(%q): %v", tt.token, err)
		}
		if got != tt.want {
			t.Errorf("Add(%q) = %s, want %s", tt.token, got, tt.want)
		}
	}

	if got := agg.Lexicon().Tokens(); !reflect.DeepEqual(got, []string{"кошки"}) {
		t.Errorf("Tokens() = %v, want [кошки]", got)
	}
}

func TestDigitCheckedBeforeAnalyzer(t *testing.T) {
	an := newScripted().on("мир1", p("мир", morph.Noun))
	agg := New(Options{Analyzer: an})

	v, err := agg.Add(context.Background(), "мир1")
	if err != nil || v != RejectedDigit {
		t.Fatalf("Add = %s, %v; want digit rejection", v, err)
	}
	if an.calls["мир1"] != 0 {
		t.Error("analyzer must not be queried for digit-contaminated tokens")
	}
}

func TestOnlyTopParseCounts(t *testing.T) {
	an := newScripted().
		// Functional reading ranked first wins even though a content reading exists.
		on("уж", p("уж", morph.Particle), p("уж", morph.Noun)).
		on("стали", p("стать", morph.Verb), p("сталь", morph.Noun))

	agg := New(Options{Analyzer: an})
	ctx := context.Background()

	if v, _ := agg.Add(ctx, "уж"); v != RejectedFunctional {
		t.Errorf("Add(уж) = %s, want functional", v)
	}
	if v, _ := agg.Add(ctx, "стали"); v != Accepted {
		t.Errorf("Add(стали) = %s, want accepted", v)
	}
	if lemma, _ := agg.Lexicon().Normalize("стали"); lemma != "стать" {
		t.Errorf("стали filed under %q, want стать", lemma)
	}
	if forms := agg.Lexicon().Forms("сталь"); forms != nil {
		t.Errorf("lower-ranked lemma must not be used, got %v", forms)
	}
}

func TestSharedLemmaGrouping(t *testing.T) {
	an := newScripted().
		on("кошка", p("кошка", morph.Noun)).
		on("кошки", p("кошка", morph.Noun)).
		on("кошкой", p("кошка", morph.Noun))

	agg := New(Options{Analyzer: an})
	if err := agg.AddAll(context.Background(), []string{"кошки", "кошкой", "кошка", "кошки"}); err != nil {
		t.Fatalf("AddAll: %v", err)
	}

	lex := agg.Lexicon()
	if got := lex.Forms("кошка"); !reflect.DeepEqual(got, []string{"кошка", "кошки", "кошкой"}) {
		t.Errorf("Forms(кошка) = %v", got)
	}
	if got := lex.Tokens(); len(got) != 3 {
		t.Errorf("Tokens() = %v, want 3 unique tokens", got)
	}
}

func TestRepeatedTokensQueryOnce(t *testing.T) {
	an := newScripted().on("дом", p("дом", morph.Noun))
	agg := New(Options{Analyzer: an})

	tokens := []string{"дом", "дом", "нечто", "дом", "нечто"}
	if err := agg.AddAll(context.Background(), tokens); err != nil {
		t.Fatalf("AddAll: %v", err)
	}

	if an.calls["дом"] != 1 || an.calls["нечто"] != 1 {
		t.Errorf("analyzer calls = %v, want one per distinct token", an.calls)
	}

	stats := agg.Stats()
	want := Stats{Seen: 5, Distinct: 2, Accepted: 3, NoParse: 2}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestStatsSumToSeen(t *testing.T) {
	an := newScripted().
		on("лес", p("лес", morph.Noun)).
		on("во", p("в", morph.Preposition)).
		on("ого", p("ого!", morph.Interjection)).
		on("хм", p("х", morph.Noun))

	agg := New(Options{Analyzer: an})
	tokens := []string{"лес", "во", "ого", "хм", "пусто", "лес", "во", "а1"}
	if err := agg.AddAll(context.Background(), tokens); err != nil {
		t.Fatalf("AddAll: %v", err)
	}

	s := agg.Stats()
	if s.Seen != len(tokens) {
		t.Errorf("Seen = %d, want %d", s.Seen, len(tokens))
	}
	if sum := s.Accepted + s.Digit + s.NoParse + s.Functional + s.BadLemma; sum != s.Seen {
		t.Errorf("verdict counts sum to %d, want %d (%+v)", sum, s.Seen, s)
	}
}

func TestAnalyzerErrorAborts(t *testing.T) {
	an := newScripted()
	an.err = errors.New("dictionary corrupted")
	agg := New(Options{Analyzer: an})

	err := agg.AddAll(context.Background(), []string{"дом", "лес"})
	if err == nil || !errors.Is(err, an.err) {
		t.Fatalf("AddAll = %v, want wrapped analyzer error", err)
	}
	if an.calls["лес"] != 0 {
		t.Error("processing must stop at the first analyzer error")
	}
	if len(agg.Lexicon().Tokens()) != 0 {
		t.Error("nothing should be recorded")
	}
}

func TestCustomStoplist(t *testing.T) {
	an := newScripted().
		on("два", p("два", morph.Numeral)).
		on("на", p("на", morph.Preposition))

	agg := New(Options{Analyzer: an, Stoplist: stoplist.FromStrings([]string{"NUMR"})})
	ctx := context.Background()

	if v, _ := agg.Add(ctx, "два"); v != RejectedFunctional {
		t.Errorf("Add(два) = %s, want functional with NUMR stopped", v)
	}
	if v, _ := agg.Add(ctx, "на"); v != Accepted {
		t.Errorf("Add(на) = %s, want accepted when PREP is not stopped", v)
	}
}

func TestOrderIndependence(t *testing.T) {
	build := func(tokens []string) ([]string, []string) {
		an := newScripted().
			on("иду", p("идти", morph.Verb)).
			on("идти", p("идти", morph.Infinitive)).
			on("шёл", p("идти", morph.Verb)).
			on("лесу", p("лес", morph.Noun))
		agg := New(Options{Analyzer: an})
		if err := agg.AddAll(context.Background(), tokens); err != nil {
			t.Fatalf("AddAll: %v", err)
		}
		lex := agg.Lexicon()
		return lex.Tokens(), lex.Forms("идти")
	}

	tokens := []string{"иду", "лесу", "шёл", "идти", "иду"}
	reversed := append([]string(nil), tokens...)
	sort.Sort(sort.Reverse(sort.StringSlice(reversed)))

	t1, f1 := build(tokens)
	t2, f2 := build(reversed)
	if !reflect.DeepEqual(t1, t2) || !reflect.DeepEqual(f1, f2) {
		t.Errorf("order changed output: %v/%v vs %v/%v", t1, f1, t2, f2)
	}
}

func TestVerdictString(t *testing.T) {
	if Accepted.String() != "accepted" || RejectedLemma.String() != "bad_lemma" {
		t.Error("unexpected verdict names")
	}
	if Verdict(42).String() != "verdict(42)" {
		t.Errorf("unknown verdict = %q", Verdict(42).String())
	}
}

// Package export renders a lexicon as the two line-oriented result files.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/wordforms/pkg/wordforms/lexicon"
)

// Writer persists the rendered token and lemma files (files, memory, etc.).
type Writer interface {
	WriteOutputs(ctx context.Context, tokens, lemmas string) error
}

// Exporter renders a lexicon as:
//
//	tokens: one surface token per line, sorted
//	lemmas: "lemma form1 form2 ..." per line, sorted by lemma, forms sorted
//
// Every line ends with a newline.
type Exporter struct {
	Writer Writer
}

// Export renders lex and hands both files to the writer.
func (e *Exporter) Export(ctx context.Context, lex *lexicon.Lexicon) error {
	if e.Writer == nil {
		return fmt.Errorf("exporter: nil writer")
	}
	return e.Writer.WriteOutputs(ctx, RenderTokens(lex), RenderLemmas(lex))
}

// RenderTokens returns the tokens file content.
func RenderTokens(lex *lexicon.Lexicon) string {
	var b strings.Builder
	for _, tok := range lex.Tokens() {
		b.WriteString(tok)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderLemmas returns the lemmas file content.
func RenderLemmas(lex *lexicon.Lexicon) string {
	var b strings.Builder
	for _, entry := range lex.Entries() {
		b.WriteString(entry.Lemma)
		b.WriteByte(' ')
		b.WriteString(strings.Join(entry.Forms, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// FileWriter writes both outputs to disk, all or nothing: each file goes to a
// temporary sibling first, and the temporaries are renamed into place only
// after both were written and closed. If the lemmas file cannot be installed,
// the tokens file is rolled back to its previous content.
type FileWriter struct {
	TokensPath string
	LemmasPath string
}

// WriteOutputs implements Writer.
func (w *FileWriter) WriteOutputs(ctx context.Context, tokens, lemmas string) (err error) {
	tokTmp, err := writeTemp(w.TokensPath, tokens)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tokTmp)
		}
	}()

	lemTmp, err := writeTemp(w.LemmasPath, lemmas)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(lemTmp)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	backup, err := backupExisting(w.TokensPath)
	if err != nil {
		return err
	}
	if err := os.Rename(tokTmp, w.TokensPath); err != nil {
		restore(backup, w.TokensPath)
		return fmt.Errorf("install %s: %w", w.TokensPath, err)
	}
	if err := os.Rename(lemTmp, w.LemmasPath); err != nil {
		restore(backup, w.TokensPath)
		return fmt.Errorf("install %s: %w", w.LemmasPath, err)
	}
	if backup != "" {
		os.Remove(backup)
	}
	return nil
}

// backupExisting hard-links the current file at path to a hidden sibling so
// it can be put back if the second install fails. It returns "" when there is
// nothing to keep.
func backupExisting(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".bak-*")
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	if err := os.Link(path, name); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return name, nil
}

// restore undoes an install: the backup goes back into place, or the new file
// is removed when there was none.
func restore(backup, path string) {
	if backup == "" {
		os.Remove(path)
		return
	}
	os.Rename(backup, path)
}

func writeTemp(path, content string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := f.Name()

	_, werr := f.WriteString(content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return name, nil
}

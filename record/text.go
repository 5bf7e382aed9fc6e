package record

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Baaaaam/optim/abc"
)

// Text writes one line per iteration to w: the global best's position, each
// value followed by a tab, then its objective value, all in scientific
// notation.
type Text struct {
	W io.Writer
}

func (t Text) Observe(_ context.Context, it abc.Iteration) error {
	return writeLine(t.W, it.Best)
}

func writeLine(w io.Writer, best abc.Candidate) error {
	for i := 0; i < best.Len(); i++ {
		if _, err := fmt.Fprintf(w, "%e\t", best.At(i)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%e\n", best.Val)
	return err
}

// TextFiles writes the Text format to a new file per run named
// <Prefix><run>.txt.
type TextFiles struct {
	Prefix string
	f      *os.File
	run    int
}

func (t *TextFiles) Observe(_ context.Context, it abc.Iteration) error {
	if t.f == nil || it.Run != t.run {
		if err := t.Close(); err != nil {
			return err
		}
		f, err := os.Create(t.Filename(it.Run))
		if err != nil {
			return err
		}
		t.f, t.run = f, it.Run
	}
	return writeLine(t.f, it.Best)
}

// Filename returns the dump file name for the given run.
func (t *TextFiles) Filename(run int) string {
	return t.Prefix + strconv.Itoa(run) + ".txt"
}

// Close closes the file of the current run.
func (t *TextFiles) Close() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

// Multi fans each record out to several observers, stopping at the first
// error.
type Multi []abc.Observer

func (m Multi) Observe(ctx context.Context, it abc.Iteration) error {
	for _, obs := range m {
		if err := obs.Observe(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

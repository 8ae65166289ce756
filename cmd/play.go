package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/levelup/internal/database"
	"github.com/example/levelup/internal/generator"
	"github.com/example/levelup/internal/render"
	"github.com/example/levelup/internal/session"
)

const invalidInputText = "⚠️ Nur Ziffern, höchstens 4."

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play quiz rounds in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, closeStore := newWeightStore(db)
		defer closeStore()

		p := session.LoadPool(ctx, store, logger)
		s := session.New(p, generator.New(newRand(cfg.Seed)), session.Config{
			TotalQuestions: cfg.TotalQuestions,
			Store:          store,
			Recorder:       database.NewResultRepository(db),
			Logger:         logger,
		})
		return runPlay(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntP("total", "n", 0, "questions per round")
	playCmd.Flags().Bool("async", true, "save weights on a background writer")
	playCmd.Flags().Uint64("seed", 0, "random seed (0 = clock)")
}

// runPlay drives s from in/out until the player declines a restart, the
// input ends or ctx is cancelled. Input read after cancellation is dropped.
func runPlay(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) error {
	lines := newLineReader(in)

	for ctx.Err() == nil {
		switch s.State() {
		case session.AwaitingAnswer:
			fmt.Fprintf(out, "\n%s   [Enter] %s\n%s = ",
				render.Header(s.Index(), s.Total()), render.CheckLabel, s.Task().Question)
			line, err := lines.next(ctx)
			if err != nil {
				return endOfInput(err)
			}
			if !render.AcceptsInput(line) {
				fmt.Fprintln(out, invalidInputText)
				continue
			}
			res := s.Submit(ctx, line)
			if res.Feedback == session.Correct {
				fmt.Fprintln(out, render.SuccessEffect)
				fmt.Fprintln(out, render.CorrectText)
			} else {
				fmt.Fprintln(out, render.Incorrect(*res.CorrectAnswer))
			}

		case session.ShowingFeedback:
			fmt.Fprintf(out, "[Enter] %s ", render.NextLabel)
			if _, err := lines.next(ctx); err != nil {
				return endOfInput(err)
			}
			s.Advance(ctx)

		case session.Finished:
			fmt.Fprintf(out, "\n🎉 %s\n", render.Final(s.Score(), s.Total()))
			fmt.Fprintf(out, "%s? [j/N] ", render.RestartLabel)
			line, err := lines.next(ctx)
			if err != nil {
				return endOfInput(err)
			}
			if !strings.EqualFold(line, "j") {
				return nil
			}
			s.Restart()
		}
	}
	return nil
}

// lineReader reads trimmed lines on demand, one read in flight at a time,
// on a separate goroutine so a blocked read does not hold up cancellation.
type lineReader struct {
	br      *bufio.Reader
	pending chan lineResult // set while a read is in flight
}

type lineResult struct {
	line string
	err  error
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(in)}
}

// next returns the next line, or ctx's error if ctx ends first or ended
// while the line was being read. A read abandoned by cancellation is picked
// up by the following call.
func (r *lineReader) next(ctx context.Context) (string, error) {
	if r.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := readLine(r.br)
			ch <- lineResult{line: line, err: err}
		}()
		r.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-r.pending:
		r.pending = nil
		if res.err != nil {
			return "", res.err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return res.line, nil
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// endOfInput treats the end of input and cancellation as a normal exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

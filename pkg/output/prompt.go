package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// ConsolePrompter asks the user what to do with each orphan candidate on the
// terminal. Empty input defaults to yes; invalid input re-prompts.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer

	titleColor *color.Color
	warnColor  *color.Color
}

// NewConsolePrompter creates a prompter on stdin/stdout
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		titleColor: color.New(color.FgRed, color.Bold),
		warnColor:  color.New(color.FgYellow),
	}
}

// NewConsolePrompterWith creates a prompter on arbitrary streams, used by tests
func NewConsolePrompterWith(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:         bufio.NewReader(in),
		out:        out,
		titleColor: color.New(color.FgRed, color.Bold),
		warnColor:  color.New(color.FgYellow),
	}
}

// Prompt presents one candidate and reads a removal answer
func (p *ConsolePrompter) Prompt(candidate models.OrphanCandidate) (models.RemovalAnswer, error) {
	entry := candidate.Entry

	fmt.Fprintln(p.out)
	p.titleColor.Fprintln(p.out, "Orphan file detected")
	fmt.Fprintf(p.out, "  File: %s\n", entry.Path)
	fmt.Fprintf(p.out, "  Size: %s (%d bytes)\n", formatBytes(entry.Size), entry.Size)
	fmt.Fprintf(p.out, "  Date: %s\n", entry.ModTime.Format("2006-01-02 15:04:05"))
	p.warnColor.Fprintln(p.out, "  This file has no match in any destination.")

	for {
		fmt.Fprint(p.out, "Delete this file? ([Y]es/n/a/q): ")

		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return models.AnswerQuit, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return models.AnswerYes, nil
		case "n", "no":
			return models.AnswerNo, nil
		case "a", "all":
			return models.AnswerAll, nil
		case "q", "quit":
			return models.AnswerQuit, nil
		}

		p.warnColor.Fprintln(p.out, "Invalid answer. Use: y (yes) / n (no) / a (all) / q (quit)")
	}
}

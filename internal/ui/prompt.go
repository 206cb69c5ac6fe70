package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Answer is the result of an input request: Confirmed(Text) when OK,
// Cancelled otherwise.
type Answer struct {
	Text string
	OK   bool
}

// Confirmed returns an answer carrying text.
func Confirmed(text string) Answer { return Answer{Text: text, OK: true} }

// Cancelled returns a cancelled answer.
func Cancelled() Answer { return Answer{} }

// Prompter asks the user for a decision or a line of text.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, message string) bool

	// Input asks for text, offering initial as the current value.
	Input(ctx context.Context, label, initial string) Answer
}

// LineReader reads free-form lines, as an interactive shell does.
type LineReader interface {
	// ReadLine shows prompt and returns the next line. ok is false at end
	// of input.
	ReadLine(ctx context.Context, prompt string) (line string, ok bool)
}

// StaticPrompter replays scripted answers, for tests and non-interactive use.
type StaticPrompter struct {
	mu sync.Mutex

	// ConfirmAnswer is returned by every Confirm call.
	ConfirmAnswer bool

	// Inputs are consumed in order by Input; once exhausted Input cancels.
	Inputs []Answer

	// Asked records every message and label passed in.
	Asked []string
}

// Confirm implements Prompter.
func (p *StaticPrompter) Confirm(ctx context.Context, message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, message)
	return p.ConfirmAnswer
}

// Input implements Prompter.
func (p *StaticPrompter) Input(ctx context.Context, label, initial string) Answer {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, label)
	if len(p.Inputs) == 0 {
		return Cancelled()
	}
	a := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	return a
}

// ReadLine implements LineReader by consuming Inputs.
func (p *StaticPrompter) ReadLine(ctx context.Context, prompt string) (string, bool) {
	a := p.Input(ctx, prompt, "")
	return a.Text, a.OK
}

// TerminalPrompter reads answers line by line.
// An empty line keeps the initial value; a single "." or end of input cancels.
// A cancelled context abandons the prompt; a line typed afterwards answers
// the next prompt. It is not safe for concurrent use.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer

	// pending delivers the line being read, nil when no read is in flight.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewTerminalPrompter returns a prompter reading from in and writing prompts to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &TerminalPrompter{in: br, out: out}
}

// Confirm implements Prompter. Only "y" or "yes" confirm.
func (p *TerminalPrompter) Confirm(ctx context.Context, message string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, ok := p.readLine(ctx)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Input implements Prompter.
func (p *TerminalPrompter) Input(ctx context.Context, label, initial string) Answer {
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, initial)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, ok := p.readLine(ctx)
	if !ok || strings.TrimSpace(line) == "." {
		return Cancelled()
	}
	if line == "" {
		return Confirmed(initial)
	}
	return Confirmed(line)
}

// ReadLine implements LineReader.
func (p *TerminalPrompter) ReadLine(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	return p.readLine(ctx)
}

func (p *TerminalPrompter) readLine(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- lineResult{line, err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", false
	case r := <-p.pending:
		p.pending = nil
		if r.err != nil && r.line == "" {
			return "", false
		}
		return strings.TrimRight(r.line, "\r\n"), true
	}
}

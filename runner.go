package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alitto/pond"
	"github.com/nguyenvanduocit/claude-quickstart/llm"
	"go.uber.org/zap"
)

const questionPrompt = "Ask your question: "

// Runner reads questions from In and prints the model's replies to Out.
type Runner struct {
	In       io.Reader
	Out      io.Writer
	Client   llm.LlmClient
	Notifier Notifier
	Logger   *zap.Logger
	Timeout  time.Duration
	Workers  int
}

// Ask prompts for one question and prints the reply.
func (r *Runner) Ask(ctx context.Context) error {
	fmt.Fprint(r.Out, questionPrompt)

	question, err := readLine(bufio.NewReader(r.In))
	if err != nil {
		return fmt.Errorf("read question: %w", err)
	}

	answer, err := r.ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Out, answer)
	r.notify(question, answer)

	return nil
}

// Batch asks every non-blank input line as its own question and prints the
// replies in input order.
func (r *Runner) Batch(ctx context.Context) error {
	var questions []string
	scanner := bufio.NewScanner(r.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			questions = append(questions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read questions: %w", err)
	}

	if len(questions) == 0 {
		return nil
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	answers := make([]string, len(questions))
	errs := make([]error, len(questions))

	pool := pond.New(workers, len(questions))
	defer pool.StopAndWait()

	group := pool.Group()
	for i, question := range questions {
		group.Submit(func() {
			answers[i], errs[i] = r.ask(ctx, question)
		})
	}
	group.Wait()

	var firstErr error
	for i, question := range questions {
		fmt.Fprintf(r.Out, "Q: %s\n", question)
		if errs[i] != nil {
			fmt.Fprintf(r.Out, "E: %v\n\n", errs[i])
			if firstErr == nil {
				firstErr = fmt.Errorf("question %d: %w", i+1, errs[i])
			}
			continue
		}

		fmt.Fprintf(r.Out, "A: %s\n\n", answers[i])
		r.notify(question, answers[i])
	}

	r.Logger.Info("batch finished", zap.Int("questions", len(questions)), zap.Int("workers", workers))

	return firstErr
}

func (r *Runner) ask(ctx context.Context, question string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	started := time.Now()
	answer, err := r.Client.SingleQuestion(ctx, question)
	if err != nil {
		r.Logger.Error("ask failed", zap.String("question", question), zap.Error(err))
		return "", err
	}

	r.Logger.Info("answered",
		zap.Int("question_length", len(question)),
		zap.Int("answer_length", len(answer)),
		zap.Duration("took", time.Since(started)),
	)

	return answer, nil
}

func (r *Runner) notify(question, answer string) {
	if r.Notifier != nil {
		r.Notifier.Notify(question, answer)
	}
}

// readLine returns one line without its line ending. A final line with no
// newline is accepted; an empty input is io.EOF.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

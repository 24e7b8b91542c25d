package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"yashubustudio/diagnox/diagnox"
)

// EmptySelectionWarning is shown when a request names no symptoms.
const EmptySelectionWarning = "Please select at least one symptom before predicting."

// Options configures the interactive loop.
type Options struct {
	Prompt string
	// Mode ModeSimple prints only the most likely disease.
	Mode   diagnox.Mode
	TopK   int
	PDF    *diagnox.PDFRenderer
	Logger zerolog.Logger
}

// RunInteractive reads one request per line from in and writes results to
// out until EOF, ":quit" or ctx is done. Per-request problems are reported on
// out and never end the loop.
func RunInteractive(ctx context.Context, svc *diagnox.Service, in io.Reader, out io.Writer, opts Options) error {
	if opts.Prompt == "" {
		opts.Prompt = "symptoms> "
	}
	if opts.PDF == nil {
		opts.PDF = diagnox.NewPDFRenderer(diagnox.PDFOptions{Compress: true})
	}
	session := NewSession(svc)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintf(out, "Loaded %d symptoms. Enter symptoms separated by commas, optionally followed by \"| severity\". Type :help for commands.\n", svc.Catalog().Len())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, opts.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, ":") {
			cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
			arg = strings.TrimSpace(arg)
			switch strings.ToLower(cmd) {
			case "q", "quit", "exit":
				return nil
			case "help":
				printHelp(out)
			case "list":
				for _, name := range svc.Catalog().Filter(arg) {
					fmt.Fprintf(out, "  %s\n", name)
				}
			case "pdf":
				exportLast(out, session, opts.PDF, arg)
			case "reset":
				session.Reset()
				fmt.Fprintln(out, "Cleared.")
			default:
				fmt.Fprintf(out, "Unknown command :%s\n", cmd)
			}
			continue
		}

		req, err := ParseRequest(line)
		if err != nil {
			fmt.Fprintf(out, "Warning: %v\n", err)
			continue
		}
		topK := opts.TopK
		if opts.Mode == diagnox.ModeSimple {
			topK = 1
		}
		res, err := session.Submit(ctx, diagnox.AnalysisRequest{
			Symptoms: req.Symptoms,
			Severity: req.Severity,
			TopK:     topK,
		})
		if err != nil {
			reportError(out, opts.Logger, err)
			continue
		}
		if err := render(out, opts.Mode, res); err != nil {
			return err
		}
	}
}

func render(out io.Writer, mode diagnox.Mode, res diagnox.AnalysisResult) error {
	if mode != diagnox.ModeSimple {
		return diagnox.RenderAnalysis(out, res)
	}
	simple := diagnox.SimpleResult{Symptoms: res.Symptoms}
	if top, ok := res.Top(); ok {
		simple.Label = top.Label
		simple.Suggestions = top.Suggestions
	}
	if err := diagnox.RenderSimple(out, simple); err != nil {
		return err
	}
	if res.Severity == diagnox.SeveritySevere {
		fmt.Fprintf(out, "!!! %s !!!\n%s\n", diagnox.SevereWarningTitle, diagnox.SevereWarningText)
	}
	return nil
}

func reportError(out io.Writer, logger zerolog.Logger, err error) {
	var inferenceErr *diagnox.InferenceError
	switch {
	case errors.Is(err, diagnox.ErrNoSymptoms):
		fmt.Fprintf(out, "Warning: %s\n", EmptySelectionWarning)
	case errors.As(err, &inferenceErr):
		logger.Error().Err(err).Msg("inference error")
		fmt.Fprintf(out, "Prediction error: %v\n", inferenceErr.Err)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func exportLast(out io.Writer, session *Session, renderer *diagnox.PDFRenderer, path string) {
	if path == "" {
		fmt.Fprintln(out, "Usage: :pdf <path>")
		return
	}
	res, ok := session.Last()
	if !ok {
		fmt.Fprintln(out, "No analysis to export.")
		return
	}
	if err := renderer.WriteFile(path, res); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Saved report to %s\n", path)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "  fever, cough | severe   analyze symptoms (severity: mild, moderate, severe)")
	fmt.Fprintln(out, "  :list [filter]          list known symptoms")
	fmt.Fprintln(out, "  :pdf <path>             export the last analysis as PDF")
	fmt.Fprintln(out, "  :reset                  clear the last analysis")
	fmt.Fprintln(out, "  :quit                   exit")
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/ui"
	"github.com/spf13/cobra"
)

const (
	formatHTML = "html"
	formatText = "text"
)

type generateOptions struct {
	mode   string
	text   string
	file   string
	format string
}

func newGenerateCmd(c *cli) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcards or a quiz from text",
		Long: `Reads study text from --text or --file ("-" for stdin), asks the server
for flashcards or a quiz and prints the rendered result. Problems are printed
to stderr as alerts and the command exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runGenerate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", string(domain.ModeFlashcards), "flashcards or quiz")
	cmd.Flags().StringVar(&opts.text, "text", "", "study text")
	cmd.Flags().StringVar(&opts.file, "file", "", `file holding the study text, "-" for stdin`)
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: html or text")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}

func (c *cli) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	if opts.format != formatHTML && opts.format != formatText {
		return fmt.Errorf("unknown format %q: use html or text", opts.format)
	}

	text, err := readInput(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	api := c.client()
	page, err := api.Page(cmd.Context(), "")
	if err != nil {
		return fmt.Errorf("loading page from %s: %w", c.v.GetString(keyServer), err)
	}
	page.SetInputValue(text)

	alerts := ui.AlertFunc(func(message string) {
		fmt.Fprintln(cmd.ErrOrStderr(), message)
	})
	controller := ui.NewController(page, api, alerts, c.log)
	if err := controller.GenerateContent(cmd.Context(), opts.mode); err != nil {
		return &alertedError{err: err}
	}

	container := ui.IDFlashcards
	if opts.mode == string(domain.ModeQuiz) {
		container = ui.IDQuiz
	}

	out := cmd.OutOrStdout()
	return controller.View(func(p *ui.Page) error {
		if opts.format == formatHTML {
			if err := p.RenderInner(out, container); err != nil {
				return err
			}
			_, err := fmt.Fprintln(out)
			return err
		}
		return ui.RenderText(out, p, container)
	})
}

func readInput(stdin io.Reader, opts generateOptions) (string, error) {
	switch opts.file {
	case "":
		return opts.text, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", opts.file, err)
		}
		return string(data), nil
	}
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telekom/smtpmailer/pkg/ansi"
	"github.com/telekom/smtpmailer/pkg/mail"
	"github.com/telekom/smtpmailer/pkg/tee"
)

func NewTeeCommand() *cobra.Command {
	var (
		subject         string
		forceColor      bool
		outputFilename  string
		backgroundColor string
	)
	cmd := &cobra.Command{
		Use:   "tee COMMAND_LINE PROFILE RECIPIENT...",
		Short: "Run a command and mail its output",
		Long: `Run a command and mail its output.

The command line runs through the system shell; its combined output is shown
as it is produced and then sent as an HTML message with terminal colors kept.
A command line starting with @ names a file that holds the command line.
The exit code of the command becomes the exit code of smtpmailer.`,
		Args:              cobra.MinimumNArgs(3),
		ValidArgsFunction: completeProfileNames(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			commandLine, err := tee.ResolveCommandLine(args[0])
			if err != nil {
				return err
			}
			store, err := rt.Store()
			if err != nil {
				return err
			}
			p, err := store.Load(args[1])
			if err != nil {
				return err
			}

			result, err := tee.Run(cmd.Context(), commandLine, tee.Options{
				Stream:     rt.Writer(),
				ForceColor: forceColor,
				Logger:     rt.Logger(),
			})
			if err != nil {
				return err
			}

			if backgroundColor == "" {
				backgroundColor = rt.BackgroundColor()
			}
			title := ""
			if outputFilename != "" {
				title = strings.TrimSuffix(filepath.Base(outputFilename), filepath.Ext(outputFilename))
			}
			document, err := ansi.Document(result.Output, ansi.DocumentOptions{
				Title:             title,
				BackgroundColor:   backgroundColor,
				NonBreakingSpaces: true,
			})
			if err != nil {
				return fmt.Errorf("failed to render output: %w", err)
			}
			if outputFilename != "" {
				if err := writeDocument(outputFilename, document); err != nil {
					return err
				}
				rt.Logger().Infow("Wrote HTML output", "path", outputFilename)
			}

			msg := mail.Message{
				Recipients: args[2:],
				Subject:    mail.ExpandSubject(subject, rt.Now()),
				Body:       document,
				Format:     mail.FormatHTML,
			}
			if err := rt.Mailer().Send(cmd.Context(), p, msg); err != nil {
				return err
			}
			if result.ExitCode != 0 {
				return &ExitError{Code: result.ExitCode}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Message subject; {now} is replaced by the current time")
	cmd.Flags().BoolVar(&forceColor, "force-color", false, "Ask the command to emit color even though its output is captured")
	cmd.Flags().StringVar(&outputFilename, "output-filename", "", "Also write the HTML output to this file")
	cmd.Flags().StringVar(&backgroundColor, "background-color", "", "Message background color (default from config, black)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func writeDocument(path, document string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(abs, []byte(document), 0o644); err != nil { //nolint:gosec // report meant to be shared
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telekom/smtpmailer/pkg/mail"
)

func NewSendCommand() *cobra.Command {
	var (
		subject     string
		body        string
		bodyFile    string
		html        bool
		attachments []string
	)
	cmd := &cobra.Command{
		Use:   "send PROFILE RECIPIENT...",
		Short: "Send a message using a profile",
		Long: `Send a message using a profile.

The subject may contain {now}, which is replaced by the current time. Use
--body-file - to read the body from standard input.`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeProfileNames(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("body-file") {
				if body, err = readBody(cmd.InOrStdin(), bodyFile); err != nil {
					return err
				}
			}
			store, err := rt.Store()
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				return err
			}

			format := mail.FormatPlain
			if html {
				format = mail.FormatHTML
			}
			msg := mail.Message{
				Recipients:  args[1:],
				Subject:     mail.ExpandSubject(subject, rt.Now()),
				Body:        body,
				Format:      format,
				Attachments: attachments,
			}
			if err := rt.Mailer().Send(cmd.Context(), p, msg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Message sent to %d recipient(s)\n", len(msg.Recipients))
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Message subject; {now} is replaced by the current time")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Message body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the message body from a file, - for stdin")
	cmd.Flags().BoolVar(&html, "html", false, "Send the body as HTML")
	cmd.Flags().StringArrayVarP(&attachments, "attachment", "a", nil, "File to attach (repeatable)")
	_ = cmd.MarkFlagRequired("subject")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	cmd.MarkFlagsOneRequired("body", "body-file")
	return cmd
}

func readBody(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return string(content), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read body file: %w", err)
	}
	return string(content), nil
}

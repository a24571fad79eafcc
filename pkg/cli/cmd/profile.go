package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/smtpmailer/pkg/cli/output"
	"github.com/telekom/smtpmailer/pkg/mail"
	"github.com/telekom/smtpmailer/pkg/profile"
)

func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Create, list, display and verify SMTP profiles",
	}
	cmd.AddCommand(
		newProfileCreateCommand(),
		newProfileListCommand(),
		newProfileDisplayCommand(),
		newProfileVerifyCommand(),
	)
	return cmd
}

func newProfileCreateCommand() *cobra.Command {
	var (
		port     int
		ssl      bool
		password string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "create NAME HOST USERNAME FROM_NAME FROM_EMAIL",
		Short: "Create or replace a profile",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name, host, username, fromName, fromEmail := args[0], args[1], args[2], args[3], args[4]
			if err := profile.ValidateName(name); err != nil {
				return err
			}
			var opts []profile.Option
			if cmd.Flags().Changed("port") {
				if port < 1 || port > 65535 {
					return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
				}
				opts = append(opts, profile.WithPort(port))
			}

			store, err := rt.Store()
			if err != nil {
				return err
			}
			exists, err := store.Exists(name)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("profile '%s' already exists; use --force to replace it", name)
			}

			if err := profile.New(host, username, password, fromName, fromEmail, ssl, opts...).Validate(); err != nil {
				return err
			}
			if password == "" {
				if password, err = rt.promptPassword(); err != nil {
					return err
				}
			}

			p := profile.New(host, username, password, fromName, fromEmail, ssl, opts...)
			if err := store.Save(name, p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Profile '%s' saved to %s\n", name, store.Path(name))
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "SMTP server port (default 465 with --ssl, 26 otherwise)")
	cmd.Flags().BoolVar(&ssl, "ssl", false, "Connect with implicit TLS instead of STARTTLS")
	cmd.Flags().StringVar(&password, "password", "", "SMTP server password; prompted for when omitted")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing profile")
	return cmd
}

func newProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			store, err := rt.Store()
			if err != nil {
				return err
			}
			names, err := store.Names()
			if err != nil {
				return err
			}

			if format != output.FormatTable {
				if names == nil {
					names = []string{}
				}
				return output.WriteObject(rt.Writer(), format, names)
			}
			if len(names) == 0 {
				_, _ = fmt.Fprintf(rt.Writer(), "No profiles found in %s\n", store.Dir())
				return nil
			}
			rows := make([]output.ProfileRow, 0, len(names))
			for _, name := range names {
				p, err := store.Load(name)
				if err != nil {
					rt.Logger().Warnw("Failed to load profile", "profile", name, "error", err)
				}
				rows = append(rows, output.ProfileRow{Name: name, Profile: p, Err: err})
			}
			output.WriteProfileTable(rt.Writer(), rows)
			return nil
		},
	}
}

func newProfileDisplayCommand() *cobra.Command {
	var showPassword bool
	cmd := &cobra.Command{
		Use:               "display NAME",
		Short:             "Display the settings of a profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfileNames(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			store, err := rt.Store()
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				return err
			}
			if format != output.FormatTable {
				return output.WriteObject(rt.Writer(), format, output.NewProfileView(args[0], p, showPassword))
			}
			_, _ = fmt.Fprint(rt.Writer(), p.DisplayString(showPassword))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPassword, "show-password", false, "Show the password instead of a mask")
	return cmd
}

func newProfileVerifyCommand() *cobra.Command {
	var attachments []string
	cmd := &cobra.Command{
		Use:               "verify NAME RECIPIENT...",
		Short:             "Verify a profile by sending a test message",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeProfileNames(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			store, err := rt.Store()
			if err != nil {
				return err
			}
			name, recipients := args[0], args[1:]
			p, err := store.Load(name)
			if err != nil {
				return err
			}
			msg, err := mail.VerificationMessage(mail.VerificationParams{ProfileName: name, SentAt: rt.Now()}, recipients, attachments)
			if err != nil {
				return err
			}
			if err := rt.Mailer().Send(cmd.Context(), p, msg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Verification message sent to %d recipient(s) using profile '%s'\n", len(recipients), name)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&attachments, "attachment", nil, "File to attach (repeatable)")
	return cmd
}

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/smtpmailer/pkg/cli/config"
	"github.com/telekom/smtpmailer/pkg/cli/output"
	"github.com/telekom/smtpmailer/pkg/mail"
	"github.com/telekom/smtpmailer/pkg/profile"
	"github.com/telekom/smtpmailer/pkg/protect"
	"github.com/telekom/smtpmailer/pkg/system"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	// ErrorWriter receives logs, prompts and the final error; nil means stderr.
	ErrorWriter io.Writer

	// The fields below replace real integrations in tests.
	Transport      mail.Transport
	Protector      protect.Protector
	PasswordReader func(prompt string) (string, error)
	Now            func() time.Time
}

type runtimeState struct {
	configPath     string
	cfg            *config.Config
	profileDir     string
	protectorName  string
	outputFormat   string
	metricsFile    string
	nonInteractive bool
	verbose        bool
	debug          bool
	writer         io.Writer
	errWriter      io.Writer
	logger         *zap.SugaredLogger

	transport    mail.Transport
	protector    protect.Protector
	readPassword func(prompt string) (string, error)
	now          func() time.Time
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
		ErrorWriter:  os.Stderr,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		configPath:   cfg.ConfigPath,
		writer:       cfg.OutputWriter,
		errWriter:    cfg.ErrorWriter,
		transport:    cfg.Transport,
		protector:    cfg.Protector,
		readPassword: cfg.PasswordReader,
		now:          cfg.Now,
	}

	root := &cobra.Command{
		Use:           "smtpmailer",
		Short:         "Send email through stored SMTP profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.errWriter == nil {
				rt.errWriter = os.Stderr
			}
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath()
			}
			if rt.profileDir == "" {
				rt.profileDir = os.Getenv(config.EnvProfileDir)
			}
			if rt.protectorName == "" {
				rt.protectorName = os.Getenv("SMTPMAILER_PROTECTOR")
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("SMTPMAILER_OUTPUT")
			}
			if !rt.nonInteractive {
				rt.nonInteractive = strings.EqualFold(os.Getenv("SMTPMAILER_NON_INTERACTIVE"), "true")
			}
			if !rt.verbose {
				rt.verbose = strings.EqualFold(os.Getenv("SMTPMAILER_VERBOSE"), "true")
			}
			rt.logger = system.NewLogger(system.LogOptions{Verbose: rt.verbose, Debug: rt.debug, Output: rt.errWriter})

			// Skip config loading for commands that don't need it
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			loaded, err := config.LoadOrDefault(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = loaded
			rt.logger.Debugw("Configuration loaded", "path", rt.configPath, "profileDir", rt.ProfileDir())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVar(&rt.profileDir, "profile-dir", "", "Directory holding profile files")
	root.PersistentFlags().StringVar(&rt.protectorName, "protector", "", "Profile protector: auto, none, dpapi, keyring")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Log progress information")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Log debug information")
	root.PersistentFlags().BoolVar(&rt.nonInteractive, "non-interactive", false, "Fail instead of prompting")
	root.PersistentFlags().StringVar(&rt.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewProfileCommand(),
		NewSendCommand(),
		NewTeeCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) OutputFormat() (output.Format, error) {
	if rt.outputFormat != "" {
		return output.ParseFormat(rt.outputFormat)
	}
	if rt.cfg != nil && rt.cfg.Settings.OutputFormat != "" {
		return output.ParseFormat(rt.cfg.Settings.OutputFormat)
	}
	return output.FormatTable, nil
}

func (rt *runtimeState) ProfileDir() string {
	if rt.profileDir != "" {
		return rt.profileDir
	}
	if rt.cfg != nil && rt.cfg.Settings.ProfileDir != "" {
		return rt.cfg.Settings.ProfileDir
	}
	return config.DefaultProfileDir()
}

func (rt *runtimeState) Protector() (protect.Protector, error) {
	if rt.protector != nil {
		return rt.protector, nil
	}
	name := rt.protectorName
	if name == "" && rt.cfg != nil {
		name = rt.cfg.Settings.Protector
	}
	return protect.ByName(name)
}

func (rt *runtimeState) BackgroundColor() string {
	if rt.cfg != nil && rt.cfg.Settings.DefaultBackgroundColor != "" {
		return rt.cfg.Settings.DefaultBackgroundColor
	}
	return config.DefaultConfig().Settings.DefaultBackgroundColor
}

func (rt *runtimeState) Store() (*profile.Store, error) {
	protector, err := rt.Protector()
	if err != nil {
		return nil, err
	}
	return profile.NewStore(rt.ProfileDir(), protector, profile.WithLogger(rt.Logger())), nil
}

func (rt *runtimeState) Mailer() *mail.Mailer {
	return mail.New(mail.WithTransport(rt.transport), mail.WithLogger(rt.Logger()), mail.WithClock(rt.now))
}

func (rt *runtimeState) Logger() *zap.SugaredLogger {
	if rt.logger != nil {
		return rt.logger
	}
	return zap.NewNop().Sugar()
}

func (rt *runtimeState) Now() time.Time {
	if rt.now != nil {
		return rt.now()
	}
	return time.Now()
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) ErrWriter() io.Writer {
	if rt.errWriter != nil {
		return rt.errWriter
	}
	return os.Stderr
}

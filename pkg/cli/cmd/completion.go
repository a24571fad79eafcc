package cmd

import (
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telekom/smtpmailer/pkg/cli/config"
)

// completionGenerators writes the completion script for a shell. descriptions
// toggles the help text shown next to candidates where the shell supports it.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer, descriptions bool) error{
	"bash": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenBashCompletionV2(w, descriptions)
	},
	"zsh": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenFishCompletion(w, descriptions)
	},
	"powershell": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

func completionShells() []string {
	shells := make([]string, 0, len(completionGenerators))
	for shell := range completionGenerators {
		shells = append(shells, shell)
	}
	sort.Strings(shells)
	return shells
}

func NewCompletionCommand() *cobra.Command {
	var noDescriptions bool
	cmd := &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script for smtpmailer",
		Long: `Print a shell completion script for smtpmailer.

Profile names, subcommands and flags complete once the script is loaded:

  bash:        source <(smtpmailer completion bash)
  zsh:         smtpmailer completion zsh > "${fpath[1]}/_smtpmailer"
  fish:        smtpmailer completion fish > ~/.config/fish/completions/smtpmailer.fish
  powershell:  smtpmailer completion powershell | Out-String | Invoke-Expression`,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             completionShells(),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			return completionGenerators[args[0]](cmd.Root(), rt.Writer(), !noDescriptions)
		},
	}
	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "Leave out descriptions of completion candidates")
	return cmd
}

// completeProfileNames completes the positional argument at position with the
// names of stored profiles. Completion skips the root pre-run, so the config
// file is read here.
func completeProfileNames(position int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != position {
			if len(args) > position {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		}
		rt, err := getRuntime(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		if rt.cfg == nil {
			path := rt.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if loaded, err := config.LoadOrDefault(path); err == nil {
				rt.cfg = loaded
			}
		}
		store, err := rt.Store()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names, err := store.Names()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var matches []string
		for _, name := range names {
			if strings.HasPrefix(name, toComplete) {
				matches = append(matches, name)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

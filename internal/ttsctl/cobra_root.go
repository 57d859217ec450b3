package ttsctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmd is a convenience for help-only fallbacks.
func buildRootCmd() *cobra.Command { return buildRootCmdWith(defaultConfig()) }

// buildRootCmdWith constructs the Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "ttsctl",
		Short:         "Client for a running ttsd server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().String("addr", cfg.Addr, "Base URL of the ttsd server (defaults TTSD_ADDR or http://127.0.0.1:8080)")
	root.PersistentFlags().Int("timeout-s", cfg.TimeoutS, "Request timeout in seconds (defaults TTSCTL_TIMEOUT_S or 120)")
	root.PersistentFlags().String("log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults TTSCTL_LOG_LEVEL or info)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if f := cmd.InheritedFlags().Lookup("addr"); f != nil {
			if v := f.Value.String(); v != "" {
				cfg.Addr = v
			}
		}
		if f := cmd.InheritedFlags().Lookup("timeout-s"); f != nil {
			var n int
			_, _ = fmt.Sscanf(f.Value.String(), "%d", &n)
			if n != 0 {
				cfg.TimeoutS = n
			}
		}
		if f := cmd.InheritedFlags().Lookup("log-level"); f != nil {
			if v := f.Value.String(); v != "" {
				cfg.LogLvl = v
			}
		}
		SetLogLevel(cfg.LogLvl)
	}

	healthCmd := &cobra.Command{Use: "health", Short: "Print the server's health snapshot", Example: "  ttsctl health", RunE: func(cmd *cobra.Command, args []string) error { return fnHealth(cfg) }}
	stateCmd := &cobra.Command{Use: "state", Short: "Print the lifecycle state", Example: "  ttsctl state", RunE: func(cmd *cobra.Command, args []string) error { return fnState(cfg) }}

	reloadCmd := &cobra.Command{Use: "reload", Short: "Ask the server to reload its model", Example: "  ttsctl reload --wait", RunE: func(cmd *cobra.Command, args []string) error {
		wait, _ := cmd.Flags().GetBool("wait")
		return fnReload(cfg, wait)
	}}
	reloadCmd.Flags().Bool("wait", false, "Block until the server reports ready again")

	speakCmd := &cobra.Command{Use: "speak", Short: "Synthesize one utterance to a WAV file", Example: "  ttsctl speak --text \"Xin chào\" -o hello.wav", RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		lang, _ := cmd.Flags().GetString("language")
		speed, _ := cmd.Flags().GetFloat64("speed")
		out, _ := cmd.Flags().GetString("out")
		return fnSpeak(cfg, text, lang, speed, out)
	}}
	speakCmd.Flags().String("text", "", "Text to synthesize (required)")
	speakCmd.Flags().String("language", "", "Language code (server default when empty)")
	speakCmd.Flags().Float64("speed", 0, "Playback speed multiplier (0 lets the server decide)")
	speakCmd.Flags().StringP("out", "o", "out.wav", "Output WAV path, or - for stdout")

	synthCmd := &cobra.Command{Use: "synth", Short: "Synthesize a whole text into a ZIP of WAVs", Example: "  ttsctl synth --file chapter.txt -o chapter.zip", RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		lang, _ := cmd.Flags().GetString("language")
		out, _ := cmd.Flags().GetString("out")
		return fnSynth(cfg, text, file, lang, out)
	}}
	synthCmd.Flags().String("text", "", "Text to synthesize")
	synthCmd.Flags().String("file", "", "Read the text from this file instead")
	synthCmd.Flags().String("language", "", "Language code (server default when empty)")
	synthCmd.Flags().StringP("out", "o", "out.zip", "Output ZIP path, or - for stdout")

	waitCmd := &cobra.Command{Use: "wait", Short: "Block until the server is ready", Example: "  ttsctl wait --timeout-s 60", RunE: func(cmd *cobra.Command, args []string) error { return fnWaitReady(cfg) }}

	root.AddCommand(healthCmd, stateCmd, reloadCmd, speakCmd, synthCmd, waitCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}

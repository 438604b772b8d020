package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "voicedesk",
	Short: "Voice-first admissions enquiry backend for colleges",
	Long: `Voicedesk runs the backend behind a college's AI admission assistant:
the admin API for college, agent and knowledge management, the voice
platform webhook that drives live calls, lead capture and call logging,
and post-call SMS and email automation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "voicedesk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

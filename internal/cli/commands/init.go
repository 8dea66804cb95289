package commands

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strudel-tools/orchestra/internal/cli/config"
	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

var (
	initTitle     string
	initTempo     int
	initTracksDir string
	initForce     bool
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <slug>",
		Short: "Create a new .strudel track scaffold",
		Long: `Create a starter .strudel file with a front-matter template and an
example pattern. The slug must be kebab-case and becomes the file name.`,
		Example: `  # Scaffold tracks/night-drive.strudel
  orchestra init night-drive

  # Custom title and tempo
  orchestra init night-drive --title "Night Drive" --tempo 120`,
		Args: cobra.ExactArgs(1),
		RunE: runInit,
	}

	cmd.Flags().StringVar(&initTitle, "title", "", "Human-readable title (default: title-cased slug)")
	cmd.Flags().IntVar(&initTempo, "tempo", 90, "Initial cycles per minute for the template")
	cmd.Flags().StringVar(&initTracksDir, "tracks-dir", "", "Directory to place the new .strudel file (default: tracks)")
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing file if present")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	slug := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	title := initTitle
	if title == "" {
		// Best effort: fall back to the title-cased slug when there is no
		// terminal to prompt on.
		prompt := &survey.Input{Message: "Track title (blank for title-cased slug):"}
		_ = survey.AskOne(prompt, &title)
	}

	target, err := orchestrator.CreateTrackStub(slug, title, initTempo, firstNonEmpty(initTracksDir, cfg.TracksDir), initForce)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Created track scaffold at %s\n", target)
	return nil
}

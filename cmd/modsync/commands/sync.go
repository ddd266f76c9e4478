package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.trai.ch/modsync/internal/app"
	"go.trai.ch/modsync/internal/core/domain"
)

// envPrefix namespaces environment overrides, e.g. MODSYNC_PLATFORM.
const envPrefix = "MODSYNC"

// Flag names. Each one can also be set through MODSYNC_<NAME> with dashes as underscores.
const (
	flagPlatform    = "platform"
	flagGameVersion = "game-version"
	flagDirectory   = "directory"
	flagConcurrency = "concurrency"
	flagCollection  = "collection"
	flagProject     = "project"
	flagKind        = "kind"
	flagConfig      = "config"
	flagNoJournal   = "no-journal"
	flagVerbose     = "verbose"
	flagJSONLog     = "json-log"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download, update or keep every tracked add-on",
		Long: "Sync resolves the newest compatible release of every project in the collection\n" +
			"(or the listed projects) and converges the managed directory to it.\n\n" +
			"Settings are read from flags, then MODSYNC_* environment variables, then modsync.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}

			_, err = c.app.Sync(cmd.Context(), syncOptions(v))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringP(flagPlatform, "l", "", "Target mod loader, e.g. fabric")
	flags.StringP(flagGameVersion, "g", "", "Target game version (default: newest release, with fallbacks)")
	flags.StringP(flagDirectory, "d", "", "Managed directory (default \""+domain.DefaultDirectory+"\")")
	flags.IntP(flagConcurrency, "j", 0, "Number of projects processed in parallel (default 5)")
	flags.StringP(flagCollection, "c", "", "Collection whose projects are tracked")
	flags.StringSlice(flagProject, nil, "Project to track; repeatable, ignored when a collection is set")
	flags.String(flagKind, "", "Artifact kind: mod, resourcepack, shader or datapack (default \"mod\")")
	flags.String(flagConfig, ".", "Directory to search for "+domain.ConfigFileName+", or the file itself")
	flags.Bool(flagNoJournal, false, "Do not append outcomes to the journal")
	flags.Bool(flagVerbose, false, "Log the timing of every project")
	flags.Bool(flagJSONLog, false, "Write logs as JSON")
	return cmd
}

// newViper layers MODSYNC_* environment variables under the command's flags.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

func syncOptions(v *viper.Viper) app.SyncOptions {
	var projects []domain.Identity
	for _, p := range v.GetStringSlice(flagProject) {
		for _, id := range strings.Split(p, ",") {
			if id = strings.TrimSpace(id); id != "" {
				projects = append(projects, domain.Identity(id))
			}
		}
	}

	return app.SyncOptions{
		Overrides: domain.RunConfiguration{
			Platform:    v.GetString(flagPlatform),
			Version:     v.GetString(flagGameVersion),
			Directory:   v.GetString(flagDirectory),
			Concurrency: v.GetInt(flagConcurrency),
			Kind:        domain.ArtifactKind(strings.ToLower(v.GetString(flagKind))),
			Scope: domain.Scope{
				Collection: v.GetString(flagCollection),
				Projects:   projects,
			},
		},
		ConfigPath: v.GetString(flagConfig),
		NoJournal:  v.GetBool(flagNoJournal),
		Verbose:    v.GetBool(flagVerbose),
		JSONLog:    v.GetBool(flagJSONLog),
	}
}

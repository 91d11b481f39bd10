package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hsbacot/jmsctl/action"
	"github.com/hsbacot/jmsctl/cache"
	"github.com/hsbacot/jmsctl/client"
	"github.com/hsbacot/jmsctl/config"
	"github.com/hsbacot/jmsctl/ui"
)

// errReported marks failures already shown to the user
var errReported = errors.New("reported")

// app holds what every subcommand shares once flags are parsed
type app struct {
	// Flags
	configPath string
	serverURL  string
	verbose    bool
	noCache    bool

	cfg    config.Config
	logger *log.Logger
	client *client.Client
	cache  *cache.Cache
}

// NewRootCmd builds the jmsctl command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "jmsctl",
		Short: "Browse, purge and send messages through a JMS toolkit backend",
		Long: `jmsctl talks to a JMS toolkit backend to list its configured queues and
topics, browse their pending messages, purge them and send text messages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.jmsctl/config.yaml)")
	flags.StringVar(&a.serverURL, "server", "", "toolkit backend URL (overrides config and $"+config.ServerEnv+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "show detailed logs")
	flags.BoolVar(&a.noCache, "no-cache", false, "bypass the local cache")

	root.AddCommand(
		newResourcesCmd(a),
		newBrowseCmd(a),
		newPurgeCmd(a),
		newSendCmd(a),
		newTUICmd(a),
		newCacheCmd(a),
	)

	return root
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.Server.URL = strings.TrimRight(a.serverURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = ui.InitLogger(a.verbose, cfg.Log.Level)
	a.client = client.New(cfg.Server.URL, client.WithTimeout(cfg.Timeout()))

	if !a.noCache && !cfg.Cache.Disabled {
		c, err := cache.NewCache(cfg.Cache.Dir)
		if err != nil {
			a.logger.Warn("Cache unavailable", "dir", cfg.Cache.Dir, "error", err)
		} else {
			c.SetLogger(a.logger)
			a.cache = c
		}
	}

	a.logger.Debug("Configured", "server", cfg.Server.URL, "cache", a.cache != nil)
	return nil
}

// handlers wires the action handlers to CLI regions and a spinner
func (a *app) handlers(results action.ResultsRegion, status action.StatusRegion, title string) *action.Handlers {
	return action.New(action.Options{
		API:          a.client,
		NewIndicator: ui.SpinnerFactory(title),
		Results:      results,
		Status:       status,
		Logger:       a.logger,
		OnBrowse:     a.saveSnapshot,
		OnPurge:      a.dropSnapshots,
	})
}

func (a *app) saveSnapshot(listing *client.Listing) {
	if a.cache == nil {
		return
	}
	if err := a.cache.SaveSnapshot(a.client.BaseURL(), listing); err != nil {
		a.logger.Warn("Failed to cache snapshot", "resource", listing.Resource, "error", err)
	}
}

// dropSnapshots forgets the listings of a resource that was just purged
func (a *app) dropSnapshots(resource string) {
	if a.cache == nil {
		return
	}
	if _, err := a.cache.RemoveSnapshots(resource); err != nil {
		a.logger.Warn("Failed to drop stale snapshots", "resource", resource, "error", err)
	}
}

// resources returns the backend catalog, consulting the cache first
func (a *app) resources(ctx context.Context) ([]client.Resource, error) {
	resources, fromCache, err := a.cache.Resources(ctx, a.client, a.cfg.ResourcesTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	a.logger.Debug("Resources loaded", "count", len(resources), "cached", fromCache)
	return resources, nil
}

// pickResource returns the resource named in args or asks for one
func (a *app) pickResource(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	resources, err := a.resources(ctx)
	if err != nil {
		return "", err
	}
	if len(resources) == 0 {
		return "", errors.New("the backend has no configured resources")
	}

	selected, err := ui.SelectResource(resources)
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return selected.Code, nil
}

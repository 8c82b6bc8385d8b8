// -- cmd/invoke.go --
package cmd

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
	"github.com/wheelhouse-ai/wheelhouse/internal/browser/cdpsession"
	"github.com/wheelhouse-ai/wheelhouse/internal/config"
	"github.com/wheelhouse-ai/wheelhouse/internal/controller"
	"github.com/wheelhouse-ai/wheelhouse/internal/filestore"
	"github.com/wheelhouse-ai/wheelhouse/internal/llmclient"
	"github.com/wheelhouse-ai/wheelhouse/internal/observability"
)

// newInvokeCmd creates the `invoke` command: one action, executed against
// a freshly booted browser session, with the outcome envelope printed as
// JSON.
func newInvokeCmd() *cobra.Command {
	var (
		paramsJSON string
		startURL   string
	)

	cmd := &cobra.Command{
		Use:   "invoke <action> [params-json]",
		Short: "Runs a single action in a live browser session",
		Long: `Invoke boots a browser, executes the named action through the full
dispatch boundary, and prints the resulting outcome envelope. Parameters
are given as a JSON object, either as the second argument or via --params.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := configFromContext(ctx)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			name := args[0]
			raw := paramsJSON
			if raw == "" && len(args) > 1 {
				raw = args[1]
			}

			registry := controller.NewDefaultRegistry(logger)
			registry.Exclude(cfg.Controller.ExcludedActions...)
			if _, ok := registry.Get(name); !ok {
				return fmt.Errorf("unknown action %q; run \"wheelhouse actions\" for the available set", name)
			}

			comps, err := initializeActionComponents(ctx, cfg, registry, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize components: %w", err)
			}
			// Teardown must finish even when the run context is already
			// cancelled.
			defer comps.Shutdown(context.Background())

			if startURL != "" {
				if _, err := comps.Session.Dispatch(ctx, schemas.NavigateEvent{URL: startURL}); err != nil {
					return fmt.Errorf("navigating to %s: %w", startURL, err)
				}
			}

			result, err := comps.Controller.InvokeNamed(ctx, name, []byte(raw), comps.Deps())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding action result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if result.Failed() {
				return fmt.Errorf("action %q failed", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&paramsJSON, "params", "p", "", "action parameters as a JSON object")
	cmd.Flags().StringVar(&startURL, "url", "", "navigate the session here before invoking")
	return cmd
}

// actionComponents bundles the collaborators a single invocation needs.
type actionComponents struct {
	Session    *cdpsession.Session
	Files      *filestore.Store
	LLM        schemas.LLMClient
	Controller *controller.Controller

	cfg    *config.Config
	logger *zap.Logger
}

// initializeActionComponents builds the file store, the optional LLM
// client, and the browser session. The LLM client is best-effort: actions
// that need it will report the missing collaborator instead.
func initializeActionComponents(ctx context.Context, cfg *config.Config, registry *controller.Registry, logger *zap.Logger) (*actionComponents, error) {
	root, err := cfg.Files.ExpandedRoot()
	if err != nil {
		return nil, err
	}
	files, err := filestore.New(root, logger)
	if err != nil {
		return nil, fmt.Errorf("opening agent file store: %w", err)
	}

	llm, llmErr := llmclient.New(cfg.LLM, logger)
	if llmErr != nil {
		logger.Warn("LLM client unavailable; actions that need it will fail with a missing collaborator.", zap.Error(llmErr))
		llm = nil
	}

	session, err := cdpsession.New(ctx, cfg.Browser, logger)
	if err != nil {
		if llm != nil {
			_ = llm.Close()
		}
		return nil, fmt.Errorf("starting browser session: %w", err)
	}

	return &actionComponents{
		Session:    session,
		Files:      files,
		LLM:        llm,
		Controller: controller.New(registry, logger),
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Deps assembles the collaborator set handed to the dispatch boundary.
func (c *actionComponents) Deps() controller.Deps {
	return controller.Deps{
		Session:            c.Session,
		LLM:                c.LLM,
		Files:              c.Files,
		AllowedUploadPaths: c.cfg.Controller.AllowedUploadPaths,
	}
}

// Shutdown releases the session and the LLM client.
func (c *actionComponents) Shutdown(ctx context.Context) {
	if c.Session != nil {
		if err := c.Session.Close(ctx); err != nil {
			c.logger.Warn("Browser session did not close cleanly.", zap.Error(err))
		}
	}
	if c.LLM != nil {
		if err := c.LLM.Close(); err != nil {
			c.logger.Warn("LLM client did not close cleanly.", zap.Error(err))
		}
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/medflow"
	"github.com/randalmurphal/medflow/notify"
	"github.com/randalmurphal/medflow/server"
)

var askVerbose bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single medical question from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false,
		"Print per-node progress messages")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	deps, err := server.BuildDeps(cfg, logger)
	if err != nil {
		return err
	}

	workflow, err := medflow.BuildWorkflow()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ctx = medflow.WithLLMClient(ctx, deps.LLM)
	ctx = medflow.WithRetriever(ctx, deps.Retriever)
	ctx = medflow.WithTrialsSearcher(ctx, deps.Trials)
	ctx = medflow.WithNodeConfig(ctx, medflow.NodeConfig{
		MaxRefines:  cfg.MaxRefines,
		TrialsLimit: cfg.TrialsLimit,
	})
	if askVerbose {
		ctx = notify.WithNotifier(ctx, notify.MessageFunc(func(message string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "... %s\n", message)
		}))
	}

	query := strings.Join(args, " ")
	final, err := workflow.Run(ctx, medflow.NewAgentState(query))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if final.Summary != "" {
		fmt.Fprintf(out, "Summary:\n%s\n\n", final.Summary)
	}
	fmt.Fprintf(out, "%s\n", final.Explanation)

	if len(final.Trials) > 0 {
		fmt.Fprintf(out, "\nRelated clinical trials:\n")
		for _, trial := range final.Trials {
			status := trial.Status
			if status == "" {
				status = "unknown status"
			}
			fmt.Fprintf(out, "  - %s (%s)\n", trial.Title, status)
		}
	}

	return nil
}

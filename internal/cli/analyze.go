package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/refnetlabs/refnet/pkg/errors"
	"github.com/refnetlabs/refnet/pkg/network"
	"github.com/refnetlabs/refnet/pkg/pipeline"
	"github.com/refnetlabs/refnet/pkg/referral"
)

// analyzeCommand creates the analyze command with its analysis subcommands.
func (c *CLI) analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a referral network",
		Long: `Analyze a referral network from a JSON network file.

Examples:
  refnet analyze rank network.json -k 10        # Top referrers by reach
  refnet analyze coverage network.json          # Greedy coverage ordering
  refnet analyze centrality network.json        # Flow bottleneck scores
  refnet analyze reach alice network.json       # One user's total reach`,
	}

	cmd.AddCommand(c.rankCommand())
	cmd.AddCommand(c.coverageCommand())
	cmd.AddCommand(c.centralityCommand())
	cmd.AddCommand(c.reachCommand())

	return cmd
}

// rankCommand creates the "analyze rank" subcommand.
func (c *CLI) rankCommand() *cobra.Command {
	var (
		k           int
		noCache     bool
		refresh     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "rank [network.json]",
		Short: "Rank users by total referral reach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runAnalysis(cmd.Context(), args[0], pipeline.Options{
				Kind:    pipeline.AnalysisRank,
				K:       k,
				Refresh: refresh,
			}, noCache)
			if err != nil {
				return err
			}

			if interactive {
				model := newRankModel(result.Ranked)
				if _, err := tea.NewProgram(model).Run(); err != nil {
					return fmt.Errorf("interactive browser: %w", err)
				}
				return nil
			}

			printSuccess("Top %d referrers", len(result.Ranked))
			fmt.Println(rankTable(result.Ranked))
			printStats(result.Stats.UserCount, result.Stats.EdgeCount, result.CacheInfo.Hit)
			printNewline()
			printNextStep("Visualize", "refnet render "+args[0])
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "top", "k", pipeline.DefaultK, "number of users to return")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache and recompute")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse results interactively")

	return cmd
}

// coverageCommand creates the "analyze coverage" subcommand.
func (c *CLI) coverageCommand() *cobra.Command {
	var (
		top     int
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "coverage [network.json]",
		Short: "Order users by greedy unique-reach coverage",
		Long: `Order users by greedy unique-reach coverage.

Each position in the ordering is the user who adds the most not-yet-covered
network members, so the first few entries form a minimal seed set for
campaigns that want maximum distinct reach.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runAnalysis(cmd.Context(), args[0], pipeline.Options{
				Kind:    pipeline.AnalysisCoverage,
				Refresh: refresh,
			}, noCache)
			if err != nil {
				return err
			}

			shown := result.Ordering
			if top > 0 && top < len(shown) {
				shown = shown[:top]
			}

			printSuccess("Coverage ordering (%d of %d users)", len(shown), len(result.Ordering))
			for i, user := range shown {
				printOrdering(i+1, user)
			}
			printStats(result.Stats.UserCount, result.Stats.EdgeCount, result.CacheInfo.Hit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "k", 0, "limit output to the first k users (0 = all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache and recompute")

	return cmd
}

// centralityCommand creates the "analyze centrality" subcommand.
func (c *CLI) centralityCommand() *cobra.Command {
	var (
		top     int
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "centrality [network.json]",
		Short: "Score users by referral-flow centrality",
		Long: `Score users by referral-flow centrality.

A user's score counts the ordered pairs of other users whose only referral
path runs through them. High scores mark structural bottlenecks: removing
such a user fragments the downstream network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runAnalysis(cmd.Context(), args[0], pipeline.Options{
				Kind:    pipeline.AnalysisCentrality,
				Refresh: refresh,
			}, noCache)
			if err != nil {
				return err
			}

			scores := result.Centrality
			if top > 0 && top < len(scores) {
				scores = scores[:top]
			}

			printSuccess("Flow centrality (%d of %d users)", len(scores), len(result.Centrality))
			fmt.Println(centralityTable(scores))
			printStats(result.Stats.UserCount, result.Stats.EdgeCount, result.CacheInfo.Hit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "k", 0, "limit output to the first k users (0 = all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache and recompute")

	return cmd
}

// reachCommand creates the "analyze reach" subcommand.
func (c *CLI) reachCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "reach <user> [network.json]",
		Short: "Show one user's total referral reach",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runAnalysis(cmd.Context(), args[1], pipeline.Options{
				Kind: pipeline.AnalysisReach,
				User: args[0],
			}, noCache)
			if err != nil {
				return err
			}

			printSuccess("%s reaches %s users",
				StyleHighlight.Render(args[0]),
				StyleNumber.Render(strconv.Itoa(result.Reach)))
			printStats(result.Stats.UserCount, result.Stats.EdgeCount, result.CacheInfo.Hit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAnalysis loads a network file and executes one analysis.
func (c *CLI) runAnalysis(ctx context.Context, input string, opts pipeline.Options, noCache bool) (*pipeline.AnalysisResult, error) {
	if err := errors.ValidateNetworkPath(input); err != nil {
		return nil, err
	}
	g, err := network.ReadNetworkFile(input)
	if err != nil {
		return nil, fmt.Errorf("load network %s: %w", input, err)
	}

	logger := loggerFromContext(ctx)
	runner := c.newRunner(noCache)
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s...", opts.Kind))
	spinner.Start()

	result, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	prog.done("Computed %s for %d users", opts.Kind, result.Stats.UserCount)
	return result, nil
}

// =============================================================================
// Tables
// =============================================================================

func resultTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleDim
			}
			if col == 2 {
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

func rankTable(ranked []referral.Ranked) string {
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{strconv.Itoa(i + 1), r.User, strconv.Itoa(r.Reach)}
	}
	return resultTable([]string{"#", "User", "Reach"}, rows)
}

func centralityTable(scores []referral.Centrality) string {
	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{strconv.Itoa(i + 1), s.User, strconv.Itoa(s.Score)}
	}
	return resultTable([]string{"#", "User", "Score"}, rows)
}

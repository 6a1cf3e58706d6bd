package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/refnetlabs/refnet/pkg/growth"
	"github.com/refnetlabs/refnet/pkg/pipeline"
)

// simOpts holds the command-line flags shared by the simulate subcommands.
type simOpts struct {
	initial     int     // initial referrer slots (0 = config default)
	capacity    float64 // per-slot referral capacity (0 = config default)
	probability float64 // daily adoption probability
	days        int     // simulation horizon
	target      int     // referral goal for the inverse searches
	precision   float64 // incentive search tolerance
	noCache     bool
	refresh     bool
}

// applyConfig fills unset simulator parameters from the config file.
func (o *simOpts) applyConfig(c *CLI) {
	cfg, err := c.loadConfig()
	if err != nil {
		c.Logger.Warnf("Ignoring config: %v", err)
		return
	}
	if o.initial == 0 {
		o.initial = cfg.Simulator.InitialReferrers
	}
	if o.capacity == 0 {
		o.capacity = cfg.Simulator.Capacity
	}
}

// registerSimFlags adds the simulator parameter flags common to all subcommands.
func registerSimFlags(cmd *cobra.Command, opts *simOpts) {
	cmd.Flags().IntVar(&opts.initial, "initial", 0,
		fmt.Sprintf("initial referrer slots (default %d)", growth.DefaultInitialReferrers))
	cmd.Flags().Float64Var(&opts.capacity, "capacity", 0,
		fmt.Sprintf("per-slot referral capacity (default %v)", float64(growth.DefaultCapacity)))
}

// simulateCommand creates the simulate command with its subcommands.
func (c *CLI) simulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate expected referral network growth",
		Long: `Simulate expected referral network growth.

The growth model tracks referrer slots that each produce an expected number
of referrals per day until their capacity is exhausted; every whole expected
referral becomes a new slot the next day.

Examples:
  refnet simulate run -p 0.3 -d 90                  # 90-day growth curve
  refnet simulate days -p 0.3 --target 5000         # Days until 5000 referrals
  refnet simulate incentive --target 5000 -d 90 \
      --curve linear --saturation 1000              # Cheapest incentive that works`,
	}

	cmd.AddCommand(c.simRunCommand())
	cmd.AddCommand(c.simDaysCommand())
	cmd.AddCommand(c.simIncentiveCommand())

	return cmd
}

// simRunCommand creates the "simulate run" subcommand.
func (c *CLI) simRunCommand() *cobra.Command {
	var opts simOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the growth model and print the daily totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(c)
			result, err := c.runSimulation(cmd.Context(), pipeline.SimOptions{
				Kind:             pipeline.SimRun,
				InitialReferrers: opts.initial,
				Capacity:         opts.capacity,
				Probability:      opts.probability,
				Days:             opts.days,
				Refresh:          opts.refresh,
			}, opts.noCache, "Simulating growth...")
			if err != nil {
				return err
			}

			printSuccess("Simulated %d days", len(result.Totals))
			printTotals(result.Totals)
			printDetail("final total: %d expected referrals", result.Final)
			return nil
		},
	}

	registerSimFlags(cmd, &opts)
	cmd.Flags().Float64VarP(&opts.probability, "probability", "p", 0, "daily adoption probability in [0, 1]")
	cmd.Flags().IntVarP(&opts.days, "days", "d", pipeline.DefaultDays, "number of days to simulate")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache and recompute")

	return cmd
}

// simDaysCommand creates the "simulate days" subcommand.
func (c *CLI) simDaysCommand() *cobra.Command {
	var opts simOpts

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Find the minimum days to reach a referral target",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(c)
			result, err := c.runSimulation(cmd.Context(), pipeline.SimOptions{
				Kind:             pipeline.SimDays,
				InitialReferrers: opts.initial,
				Capacity:         opts.capacity,
				Probability:      opts.probability,
				Target:           opts.target,
			}, true, "Searching for minimum days...")
			if err != nil {
				return err
			}

			if result.Days == growth.Unreachable {
				printWarning("Target of %d referrals is unreachable at p=%v", opts.target, opts.probability)
				return nil
			}
			printSuccess("Target of %s referrals reached in %s days",
				StyleNumber.Render(strconv.Itoa(opts.target)),
				StyleNumber.Render(strconv.Itoa(result.Days)))
			return nil
		},
	}

	registerSimFlags(cmd, &opts)
	cmd.Flags().Float64VarP(&opts.probability, "probability", "p", 0, "daily adoption probability in [0, 1]")
	cmd.Flags().IntVar(&opts.target, "target", 0, "cumulative referral goal")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// simIncentiveCommand creates the "simulate incentive" subcommand.
func (c *CLI) simIncentiveCommand() *cobra.Command {
	var (
		opts  simOpts
		curve pipeline.CurveSpec
	)

	cmd := &cobra.Command{
		Use:   "incentive",
		Short: "Find the minimum incentive to reach a target in time",
		Long: `Find the minimum incentive to reach a target within a deadline.

The adoption curve maps incentive spend to daily adoption probability.
Pick a curve shape with --curve and its parameters with the matching flags:

  constant:  --curve-probability
  linear:    --saturation
  logistic:  --midpoint --steepness
  step:      --threshold --low --high`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(c)
			result, err := c.runSimulation(cmd.Context(), pipeline.SimOptions{
				Kind:             pipeline.SimIncentive,
				InitialReferrers: opts.initial,
				Capacity:         opts.capacity,
				Days:             opts.days,
				Target:           opts.target,
				Precision:        opts.precision,
				Curve:            curve,
			}, true, "Searching for minimum incentive...")
			if err != nil {
				return err
			}

			if result.Incentive == growth.Impossible {
				printWarning("No incentive up to %v reaches %d referrals in %d days",
					growth.MaxIncentive, opts.target, opts.days)
				return nil
			}
			printSuccess("Minimum incentive: %s", StyleNumber.Render(fmt.Sprintf("%.2f", result.Incentive)))
			printDetail("reaches %d referrals within %d days", opts.target, opts.days)
			return nil
		},
	}

	registerSimFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.days, "days", "d", pipeline.DefaultDays, "deadline in days")
	cmd.Flags().IntVar(&opts.target, "target", 0, "cumulative referral goal")
	cmd.Flags().Float64Var(&opts.precision, "precision", pipeline.DefaultPrecision, "search tolerance (answer rounds up to a multiple of this)")
	cmd.Flags().StringVar(&curve.Name, "curve", pipeline.CurveLinear, "adoption curve: constant, linear, logistic, step")
	cmd.Flags().Float64Var(&curve.Probability, "curve-probability", 0, "fixed probability (constant)")
	cmd.Flags().Float64Var(&curve.Saturation, "saturation", 1000, "incentive where adoption reaches 1.0 (linear)")
	cmd.Flags().Float64Var(&curve.Midpoint, "midpoint", 500, "incentive of 50%% adoption (logistic)")
	cmd.Flags().Float64Var(&curve.Steepness, "steepness", 0.01, "curve steepness (logistic)")
	cmd.Flags().Float64Var(&curve.Threshold, "threshold", 0, "incentive threshold (step)")
	cmd.Flags().Float64Var(&curve.Low, "low", 0, "probability below threshold (step)")
	cmd.Flags().Float64Var(&curve.High, "high", 1, "probability at or above threshold (step)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// runSimulation executes one simulation flow with a spinner.
func (c *CLI) runSimulation(ctx context.Context, opts pipeline.SimOptions, noCache bool, message string) (*pipeline.SimResult, error) {
	runner := c.newRunner(noCache)
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()

	result, err := runner.Simulate(ctx, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return result, nil
}

// printTotals prints the daily cumulative totals, eliding the middle of
// long runs.
func printTotals(totals []int) {
	const headTail = 5
	for i, total := range totals {
		if len(totals) > 2*headTail && i == headTail {
			printDetail("... %d days elided ...", len(totals)-2*headTail)
		}
		if len(totals) > 2*headTail && i >= headTail && i < len(totals)-headTail {
			continue
		}
		printDetail("day %3d: %d", i+1, total)
	}
}

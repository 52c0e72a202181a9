package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/steelfist/internal/seed"
	"github.com/Shivanand-hulikatti/steelfist/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demo data",
	Long: `Populate the database with demo members, coaches, courses and registrations.
Entity kinds that already have rows are skipped unless --force is given.`,
	RunE: runSeed,
}

func init() {
	defaults := seed.DefaultOptions()
	seedCmd.Flags().Bool("force", false, "insert data even if tables already contain rows")
	seedCmd.Flags().Int("members", defaults.Members, "members to create")
	seedCmd.Flags().Int("coaches", defaults.Coaches, "coaches to create")
	seedCmd.Flags().Int("courses", defaults.Courses, "courses to create")
	seedCmd.Flags().Int("registrations", defaults.Registrations, "registration attempts")
	seedCmd.Flags().Uint64("seed", 0, "random seed (default: current time)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	var opts seed.Options
	var err error
	if opts.Force, err = flags.GetBool("force"); err != nil {
		return err
	}
	if opts.Members, err = flags.GetInt("members"); err != nil {
		return err
	}
	if opts.Coaches, err = flags.GetInt("coaches"); err != nil {
		return err
	}
	if opts.Courses, err = flags.GetInt("courses"); err != nil {
		return err
	}
	if opts.Registrations, err = flags.GetInt("registrations"); err != nil {
		return err
	}
	rnd, err := flags.GetUint64("seed")
	if err != nil {
		return err
	}
	if rnd == 0 {
		rnd = uint64(time.Now().UnixNano())
	}

	store, err := openStore(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = store.Close() }()

	sum, err := seed.New(service.NewGymService(store), rnd).Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"created %d members, %d coaches, %d courses, %d registrations (%d rejected)\n",
		sum.Members, sum.Coaches, sum.Courses, sum.Registrations, sum.Rejected)
	return err
}

package main

import (
	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/spf13/cobra"
)

func SetupCommands(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio site with a whitewater kayaking log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("backend", "", "whitewater log backend (supabase or sqlite)")
	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database")
	_ = a.v.BindPFlag("wwlog_backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = a.v.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))

	// serve is also what the bare command does
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Init(a.v.GetBool("track_visitors"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Serve(cmd.Context())
		},
	}
	serveCmd.Flags().String("port", "", "port to listen on")
	serveCmd.Flags().Bool("track-visitors", true, "record hashed page views")
	_ = a.v.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("track_visitors", serveCmd.Flags().Lookup("track-visitors"))

	rootCmd.Args = cobra.NoArgs
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.PreRunE = serveCmd.PreRunE
	rootCmd.RunE = serveCmd.RunE

	wwlogCmd := &cobra.Command{
		Use:   "wwlog",
		Short: "Read and write the whitewater log",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Init(false)
		},
	}

	var listYear, statsYear string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ListEntries(cmd.Context(), listYear)
		},
	}
	listCmd.Flags().StringVar(&listYear, "year", string(wwlog.AllYears), "year to list, or All")

	var statsJSON bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print days on the water by river and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Stats(cmd.Context(), statsYear, statsJSON)
		},
	}
	statsCmd.Flags().StringVar(&statsYear, "year", "", "year to summarise, or All (default: most recent year)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the aggregated view as JSON")

	form := wwlog.NewForm(a.now())
	var notes string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a log entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form.SetNotes(notes)
			return a.AddEntry(cmd.Context(), form)
		},
	}
	addCmd.Flags().StringVar(&form.Date, "date", form.Date, "day on the water (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&form.River, "river", form.River, "river section")
	addCmd.Flags().StringVar(&form.Level, "level", form.Level, "gauge reading")
	addCmd.Flags().StringVar((*string)(&form.Unit), "unit", string(form.Unit), "gauge unit (FT or CFS)")
	addCmd.Flags().StringVar(&notes, "notes", "", "free-form notes, cut to 200 characters")
	_ = addCmd.RegisterFlagCompletionFunc("river", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return wwlog.Rivers, cobra.ShellCompDirectiveNoFileComp
	})

	wwlogCmd.AddCommand(listCmd, statsCmd, addCmd)

	visitorsCmd := &cobra.Command{
		Use:   "visitors",
		Short: "Inspect privacy-conscious visitor statistics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Init(true)
		},
	}
	var visitorsJSON bool
	visitorStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print visit counts and the most viewed pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.VisitorStats(cmd.Context(), visitorsJSON)
		},
	}
	visitorStatsCmd.Flags().BoolVar(&visitorsJSON, "json", false, "print the statistics as JSON")
	visitorsCmd.AddCommand(visitorStatsCmd)

	rootCmd.AddCommand(serveCmd, wwlogCmd, visitorsCmd)
	return rootCmd
}

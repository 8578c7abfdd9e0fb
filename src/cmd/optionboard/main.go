package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/option-analytics/src/cmd/optionboard/run"
	"github.com/jiaming2012/option-analytics/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "optionboard",
	Short: "Summarize an option board from a csv of quotes",
	Long:  `This program loads option quotes from a csv file into a board of quote books and prints the at-the-money and delta-bucket quotes of every maturity.`,
	Run: func(cmd *cobra.Command, args []string) {
		csvPath, err := cmd.Flags().GetString("csv")
		if err != nil {
			log.Fatalf("error getting csv: %v", err)
		}

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		envDir, err := cmd.Flags().GetString("env-dir")
		if err != nil {
			log.Fatalf("error getting env-dir: %v", err)
		}

		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		greeks, err := cmd.Flags().GetString("exposure")
		if err != nil {
			log.Fatalf("error getting exposure: %v", err)
		}

		exposureGreeks, err := utils.ParseGreekNames(greeks)
		if err != nil {
			log.Fatalf("error parsing exposure: %v", err)
		}

		runArgs := run.RunArgs{
			CsvPath:        csvPath,
			ConfigPath:     configPath,
			EnvDir:         envDir,
			GoEnv:          goEnv,
			ExposureGreeks: exposureGreeks,
		}

		if _, err := run.Run(runArgs, os.Stdout); err != nil {
			log.Fatalf("error running command: %v", err)
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(new(string), "csv", "c", "", "Path to the csv file of option quotes. This flag is required.")
	rootCmd.PersistentFlags().StringVar(new(string), "config", "", "Path to the analytics yaml config (solver settings, log level, default rate and dividend).")
	rootCmd.PersistentFlags().StringVar(new(string), "env-dir", "", "Directory holding the .env.<go-env> files. No env file is loaded when empty.")
	rootCmd.PersistentFlags().StringVar(new(string), "go-env", "development", "The go environment to run the command in.")
	rootCmd.PersistentFlags().StringVarP(new(string), "exposure", "x", "", "Comma-separated greeks whose front month exposure is printed, e.g. gamma,delta.")

	rootCmd.MarkPersistentFlagRequired("csv")

	cobra.CheckErr(rootCmd.Execute())
}

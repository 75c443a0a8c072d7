// =================================================================================
//
//			fox-spl - https://www.foxhollow.cc/projects/fox-spl/
//
//		 Fox SPL is a touchscreen sound level meter that watches one or two
//	  audio inputs and flags material that is too quiet or too loud
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package app

import (
	"fmt"
	"log/slog"
	"os"

	"fox-spl/model"
	"fox-spl/shared"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X fox-spl/app.Version=..."
var Version = "dev"

var (
	args model.CommandLineArgs

	rootCmd = &cobra.Command{
		Use:   "fox-spl",
		Short: "Touchscreen sound level meter",
		Long: `fox-spl watches one or two audio inputs and shows whether the
material is too quiet, acceptable or too loud.`,
		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, _ []string) error {
			if args.WavFile != "" && args.Source == "" && !args.Simulate {
				args.Source = string(model.SourceWav)
			}

			return runEngine(&args)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",

		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fox-spl "+Version)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&args.ConfigFile, "config", "c", "", "Path or name of the config file (default "+model.DefaultConfigFile+")")
	rootCmd.Flags().BoolVar(&args.Simulate, "simulate", false, "Meter a simulated input instead of the configured source")
	rootCmd.Flags().BoolVar(&args.Headless, "headless", false, "Print JSON snapshots to stdout instead of drawing the meter")
	rootCmd.Flags().StringVar(&args.LogFile, "log-file", "", "Write the log to this file")
	rootCmd.Flags().StringVar(&args.LogLevel, "log-level", "", "One of trace, debug, info, warn or error")
	rootCmd.Flags().StringVarP(&args.Source, "source", "s", "", "Audio source: jack, arecord, ffmpeg, wav or simulate")
	rootCmd.Flags().StringVar(&args.WavFile, "wav", "", "Meter this wav file, implies --source wav")

	rootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		// the log may be going to a file by now
		slog.Error(err.Error())
		fmt.Fprintln(shared.StockStderr(), "Error: "+err.Error())
		os.Exit(1)
	}
}

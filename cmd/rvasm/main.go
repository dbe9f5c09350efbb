// Command rvasm assembles RV32IMAC assembly source into a flat binary
// image. See spec.md §6 for the external CLI contract this wraps around
// the asm package's programmatic API.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nibiru-systems/rvasm/asm"
	"github.com/nibiru-systems/rvasm/internal/config"
	"github.com/nibiru-systems/rvasm/internal/listing"
)

var (
	flagCompress   bool
	flagIncludes   []string
	flagOutput     string
	flagDump       bool
	flagConfigPath string
)

var command = &cobra.Command{
	Use:           "rvasm <input> [-o output]",
	Short:         "Assemble RV32IMAC source into a flat binary image",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return errors.Wrap(err, "loading config")
		}

		compress := cfg.Assemble.Compress || flagCompress
		includeDirs := append(append([]string{}, cfg.Assemble.IncludeDirs...), flagIncludes...)
		outPath := flagOutput
		if outPath == "" {
			outPath = cfg.Output.Path
		}
		if outPath == "" {
			outPath = "a.out"
		}

		var labels map[string]int64
		img, err := asm.Assemble(args[0],
			asm.WithCompress(compress),
			asm.WithIncludeDirs(includeDirs...),
			asm.WithLabelsOut(&labels),
		)
		if err != nil {
			return err
		}

		if cfg.Output.ListingFile != "" {
			f, err := os.Create(cfg.Output.ListingFile)
			if err != nil {
				return errors.Wrapf(err, "creating %s", cfg.Output.ListingFile)
			}
			defer f.Close()
			if err := listing.Write(f, img, labels); err != nil {
				return errors.Wrap(err, "writing listing")
			}
		}

		if flagDump {
			fmt.Fprintln(os.Stdout, hex.EncodeToString(img))
			return nil
		}

		if err := os.WriteFile(outPath, img, 0644); err != nil {
			return errors.Wrapf(err, "writing %s", outPath)
		}
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFrom(flagConfigPath)
	}
	return config.Load()
}

func init() {
	command.Flags().BoolVar(&flagCompress, "compress", false, "shrink eligible instructions to their RVC compressed form")
	command.Flags().StringArrayVar(&flagIncludes, "include", nil, "directory to search for `include`/`include_bytes` directives (repeatable)")
	command.Flags().StringVarP(&flagOutput, "output", "o", "", "output file for the assembled image (default a.out, or the config's output.path)")
	command.Flags().BoolVar(&flagDump, "dump", false, "print the assembled image as hex instead of writing a file")
	command.Flags().StringVar(&flagConfigPath, "config", "", "path to an rvasm.toml config file (default: platform config dir)")
}

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

func main() {
	atExit(command.Execute())
}

package main

import (
	"errors"
	"os"

	goversion "github.com/caarlos0/go-version"
	"github.com/caarlos0/log"
	"github.com/loicsikidi/winkit/cmd/critical"
	"github.com/loicsikidi/winkit/cmd/dialog"
	"github.com/loicsikidi/winkit/cmd/elevate"
	"github.com/loicsikidi/winkit/cmd/startup"
	versionCmd "github.com/loicsikidi/winkit/cmd/version"
	"github.com/loicsikidi/winkit/internal"
	"github.com/spf13/cobra"
)

const website = "https://github.com/loicsikidi/winkit"

var (
	version = ""
	builtBy = ""
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "winkit",
		Short:         "small Windows automation toolkit",
		Long:          `Show native message boxes, elevate through UAC, register startup shortcuts and inspect critical processes.`,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(dialog.NewCommand())
	rootCmd.AddCommand(elevate.NewCommand())
	rootCmd.AddCommand(startup.NewCommand())
	rootCmd.AddCommand(critical.NewCommand())
	rootCmd.AddCommand(versionCmd.NewCommand(buildVersion(version, builtBy)))

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, internal.ErrSilence) {
			log.WithError(err).Error("command failed")
		}
		os.Exit(1)
	}
}

func buildVersion(version, builtBy string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("winkit", "Windows automation, simplified.", website),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}

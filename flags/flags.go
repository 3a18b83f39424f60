// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ConfigFlagName = "config"
	DBFlagName     = "db"
	NameFlagName   = "name"
)

// BindFlags registers the persistent flags shared by every command.
func BindFlags(rootCMD *cobra.Command) {
	rootCMD.PersistentFlags().String(ConfigFlagName, ".", "Path to JSON configuration file, or 'env' to read AXB_ prefixed environment variables")
	_ = viper.BindPFlag(ConfigFlagName, rootCMD.PersistentFlags().Lookup(ConfigFlagName))

	rootCMD.PersistentFlags().String(DBFlagName, "", "Overrides the configured state database path")
	_ = viper.BindPFlag(DBFlagName, rootCMD.PersistentFlags().Lookup(DBFlagName))

	rootCMD.PersistentFlags().String(NameFlagName, "", "Bridge node name")
	_ = viper.BindPFlag(NameFlagName, rootCMD.PersistentFlags().Lookup(NameFlagName))
}

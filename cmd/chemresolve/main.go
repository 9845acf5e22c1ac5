// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chemresolve CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/carbonlab/chemresolve/internal/catalog"
	"github.com/carbonlab/chemresolve/internal/secrets"
	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "chemresolve/0.1"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the chemresolve CLI.
var rootCmd = &cobra.Command{
	Use:   "chemresolve",
	Short: "Chemical identity resolution for the NEXAFS compound catalog",
	Long: `chemresolve resolves partial chemical descriptors (common name, PubChem
CID, CAS Registry Number, SMILES, InChI) into complete compound records.
It consults the local catalog first, then PubChem PUG REST, then the CAS
Common Chemistry registry, merging results without overwriting data the
caller already supplied.

The catalog subcommand manages the local compound database, load imports
bulk NEXAFS measurement trees, and serve exposes everything over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./chemresolve.yaml or ~/.config/chemresolve/config.yaml)")
	rootCmd.PersistentFlags().String("catalog-dir", "catalog", "base directory for the compound catalog")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chemresolve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chemresolve"))
		}
	}

	viper.SetEnvPrefix("CHEMRESOLVE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the catalog under --catalog-dir.
func openStore(cmd *cobra.Command) (*catalog.Store, error) {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir == "" {
		catalogDir = viper.GetString("catalog.dir")
	}
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	maxResults := viper.GetInt("catalog.max_results")

	return catalog.NewStore(types.CatalogConfig{
		CatalogDir: catalogDir,
		MaxResults: maxResults,
	})
}

// buildSources constructs the remote adapters from config and secrets.
func buildSources(timeout time.Duration) (*source.PubChemClient, *source.CASClient) {
	if timeout == 0 {
		if t := viper.GetDuration("http.timeout"); t > 0 {
			timeout = t
		} else {
			timeout = defaultTimeout
		}
	}
	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
	client := &http.Client{Timeout: timeout}

	pubchem := &source.PubChemClient{
		Client: client,
		Config: types.PubChemConfig{
			HTTPConfig:   httpCfg,
			ContactEmail: secretDefault("pubchem-contact-email", viper.GetString("pubchem.contact_email")),
		},
	}
	cas := &source.CASClient{
		Client: client,
		Config: types.CASConfig{
			HTTPConfig: httpCfg,
			APIKey:     secretDefault("cas-api-key", viper.GetString("cas.api_key")),
		},
	}
	return pubchem, cas
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagConfig        = "config"
	FlagSeed          = "seed"
	FlagAccounts      = "accounts"
	FlagOps           = "ops"
	FlagFunds         = "funds"
	FlagDenom         = "denom"
	FlagLogLevel      = "log-level"
	FlagAutoReconcile = "auto-reconcile"
	FlagDepositCap    = "deposit-cap"

	// EnvPrefix prefixes the environment variables that override flags, e.g. VAULTSIM_SEED.
	EnvPrefix = "VAULTSIM"
)

// Config holds the settings of a simulation run.
type Config struct {
	Seed          int64
	Accounts      int
	Ops           int
	Funds         sdkmath.Int
	Denom         string
	LogLevel      string
	AutoReconcile bool
	DepositCap    sdkmath.Int
}

func addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(FlagConfig, "", "optional config file (yaml, toml or json) with flag values")
	f.Int64(FlagSeed, 42, "random seed")
	f.Int(FlagAccounts, 10, "number of simulated accounts")
	f.Int(FlagOps, 1000, "number of operations to run")
	f.String(FlagFunds, "1000000000", "initial asset balance of every account")
	f.String(FlagDenom, "uusd", "denom of the vault asset")
	f.String(FlagLogLevel, "info", `log level, either a level or a filter such as "x/vault:debug,*:error"`)
	f.Bool(FlagAutoReconcile, true, "reconcile tracked assets with custody before every operation")
	f.String(FlagDepositCap, "0", "maximum total assets after a deposit, 0 for no cap")
}

// loadConfig resolves the run settings from flags, environment variables and the
// optional config file, in that order of precedence.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Config{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	funds, ok := sdkmath.NewIntFromString(v.GetString(FlagFunds))
	if !ok || !funds.IsPositive() {
		return Config{}, fmt.Errorf("invalid %s %q: must be a positive integer", FlagFunds, v.GetString(FlagFunds))
	}
	depositCap, ok := sdkmath.NewIntFromString(v.GetString(FlagDepositCap))
	if !ok || depositCap.IsNegative() {
		return Config{}, fmt.Errorf("invalid %s %q: must be a non-negative integer", FlagDepositCap, v.GetString(FlagDepositCap))
	}

	cfg := Config{
		Seed:          v.GetInt64(FlagSeed),
		Accounts:      v.GetInt(FlagAccounts),
		Ops:           v.GetInt(FlagOps),
		Funds:         funds,
		Denom:         strings.TrimSpace(v.GetString(FlagDenom)),
		LogLevel:      v.GetString(FlagLogLevel),
		AutoReconcile: v.GetBool(FlagAutoReconcile),
		DepositCap:    depositCap,
	}
	if cfg.Accounts <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", FlagAccounts, cfg.Accounts)
	}
	if cfg.Ops < 0 {
		return Config{}, fmt.Errorf("%s cannot be negative, got %d", FlagOps, cfg.Ops)
	}
	return cfg, nil
}

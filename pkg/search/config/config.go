// Package config loads driver parameters (pkg/search/mc.Params,
// pkg/search/gp.Params, pkg/search/mcts.Params) from a config file and
// environment variables via github.com/spf13/viper, grounded on the
// config-loading half of the teacher's pkg/infra/config watcher (this
// package reads defaults + overrides once rather than hot-reloading,
// since a search run's parameters are fixed for its duration).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/exprsearch/go-exprsearch/pkg/search/gp"
	"github.com/exprsearch/go-exprsearch/pkg/search/mc"
	"github.com/exprsearch/go-exprsearch/pkg/search/mcts"
)

// New builds a viper instance with the file at path (if non-empty)
// merged over this package's defaults, plus EXPRSEARCH_-prefixed
// environment variable overrides (e.g. EXPRSEARCH_MC_NSAMPLES).
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("exprsearch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mc.nsamples", mc.DefaultNSamples)
	v.SetDefault("mc.maxdepth", mc.DefaultMaxDepth)
	v.SetDefault("mc.retries", mc.DefaultRetries)
	v.SetDefault("mc.seed", int64(0))
	v.SetDefault("mc.movetime_ms", 0)

	v.SetDefault("gp.popsize", gp.DefaultPopSize)
	v.SetDefault("gp.ngenerations", gp.DefaultNGenerations)
	v.SetDefault("gp.maxdepth", gp.DefaultMaxDepth)
	v.SetDefault("gp.retries", gp.DefaultRetries)
	v.SetDefault("gp.tournamentsize", gp.DefaultTournamentSize)
	v.SetDefault("gp.elitismfrac", 0.05)
	v.SetDefault("gp.crossoverfrac", 0.7)
	v.SetDefault("gp.mutatefrac", 0.2)
	v.SetDefault("gp.randfrac", 0.05)
	v.SetDefault("gp.seed", int64(0))
	v.SetDefault("gp.workers", 1)

	v.SetDefault("mcts.niters", mcts.DefaultNIters)
	v.SetDefault("mcts.searchdepth", mcts.DefaultSearchDepth)
	v.SetDefault("mcts.maxdepth", mcts.DefaultMaxDepth)
	v.SetDefault("mcts.exploration", mcts.DefaultExploration)
	v.SetDefault("mcts.stepreward", mcts.DefaultStepReward)
	v.SetDefault("mcts.maxnegreward", mcts.DefaultMaxNegReward)
	v.SetDefault("mcts.discount", mcts.DefaultDiscount)
	v.SetDefault("mcts.maxmod", false)
	v.SetDefault("mcts.seed", int64(0))
}

// LoadMCParams resolves pkg/search/mc.Params from the "mc" section.
func LoadMCParams(v *viper.Viper) mc.Params {
	return mc.Params{
		NSamples: v.GetInt("mc.nsamples"),
		MaxDepth: v.GetInt("mc.maxdepth"),
		Retries:  v.GetInt("mc.retries"),
		Seed:     v.GetInt64("mc.seed"),
		Movetime: time.Duration(v.GetInt("mc.movetime_ms")) * time.Millisecond,
	}
}

// LoadGPParams resolves pkg/search/gp.Params from the "gp" section.
func LoadGPParams(v *viper.Viper) gp.Params {
	return gp.Params{
		PopSize:        v.GetInt("gp.popsize"),
		NGenerations:   v.GetInt("gp.ngenerations"),
		MaxDepth:       v.GetInt("gp.maxdepth"),
		Retries:        v.GetInt("gp.retries"),
		TournamentSize: v.GetInt("gp.tournamentsize"),
		ElitismFrac:    v.GetFloat64("gp.elitismfrac"),
		CrossoverFrac:  v.GetFloat64("gp.crossoverfrac"),
		MutateFrac:     v.GetFloat64("gp.mutatefrac"),
		RandFrac:       v.GetFloat64("gp.randfrac"),
		Seed:           v.GetInt64("gp.seed"),
		Workers:        v.GetInt("gp.workers"),
	}
}

// LoadMCTSParams resolves pkg/search/mcts.Params from the "mcts" section.
func LoadMCTSParams(v *viper.Viper) mcts.Params {
	return mcts.Params{
		NIters:       v.GetInt("mcts.niters"),
		SearchDepth:  v.GetInt("mcts.searchdepth"),
		MaxDepth:     v.GetInt("mcts.maxdepth"),
		Exploration:  v.GetFloat64("mcts.exploration"),
		StepReward:   v.GetFloat64("mcts.stepreward"),
		MaxNegReward: v.GetFloat64("mcts.maxnegreward"),
		Discount:     v.GetFloat64("mcts.discount"),
		MaxMod:       v.GetBool("mcts.maxmod"),
		Seed:         v.GetInt64("mcts.seed"),
	}
}

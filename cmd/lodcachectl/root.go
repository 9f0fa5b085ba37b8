package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fortytwonet/lodcache"
	"github.com/fortytwonet/lodcache/defaults"
	"github.com/fortytwonet/lodcache/triplestore/sqlite"
)

// cliConfig is the shape flags and LODCACHE_-prefixed environment variables
// are bound into via viper, mirroring the teacher's Config for the
// middleware but for this engine. No config file is read.
type cliConfig struct {
	StorePath           string        `mapstructure:"store"`
	MemoryCacheCapacity int           `mapstructure:"memory-cache-capacity"`
	CacheLifetime       time.Duration `mapstructure:"cache-lifetime"`
	DatatypeHandling    string        `mapstructure:"datatype-handling"`
	Verbose             bool          `mapstructure:"verbose"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "lodcachectl",
		Short: "Drive a Linked Data caching engine",
	}

	root.PersistentFlags().String("store", "lodcache.db", "path to the sqlite triple store")
	root.PersistentFlags().Int("memory-cache-capacity", lodcache.DefaultIndexCapacity, "bounded in-memory metadata index capacity")
	root.PersistentFlags().Duration("cache-lifetime", lodcache.DefaultCacheLifetime, "freshness window for cache entries")
	root.PersistentFlags().String("datatype-handling", string(lodcache.DatatypeIgnore), "literal datatype strictness: ignore, verify, normalize")
	root.PersistentFlags().Bool("verbose", false, "trace-level logging")

	_ = v.BindPFlags(root.PersistentFlags())
	v.SetEnvPrefix("LODCACHE")
	v.AutomaticEnv()

	root.AddCommand(newServeCmd(v))
	root.AddCommand(newRetrieveCmd(v))
	root.AddCommand(newWarmCmd(v))

	return root
}

func loadConfig(v *viper.Viper) (cliConfig, error) {
	var cfg cliConfig
	err := v.Unmarshal(&cfg)
	return cfg, err
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.TraceLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// buildEngine opens the configured sqlite store and wires the default
// dereferencers/RDFizers, matching createDefault(store) (§4.8). Closing the
// returned engine also closes the store.
func buildEngine(cfg cliConfig, log zerolog.Logger) (*lodcache.Engine, error) {
	conn, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	engine, err := lodcache.New(conn, lodcache.Config{
		MemoryCacheCapacity: cfg.MemoryCacheCapacity,
		CacheLifetime:       cfg.CacheLifetime,
		DatatypeHandling:    lodcache.DatatypeHandling(cfg.DatatypeHandling),
		AutoCommit:          true,
		DerefSubjects:       true,
		DerefObjects:        true,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	engine.SetLogger(log)

	if err := defaults.Wire(engine, nil, log); err != nil {
		engine.Close()
		return nil, err
	}

	return engine, nil
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onflow/corruptible-validator/cmd"
	insecurecmd "github.com/onflow/corruptible-validator/insecure/cmd"
	"github.com/onflow/corruptible-validator/insecure/orchestrators/fakevalidation"
)

const envPrefix = "CORRUPT"

// node variants
const (
	variantGarbageCandidate = "suggest-garbage-candidate"
	variantPassthrough      = "passthrough"
	variantHonest           = "honest"
)

type config struct {
	Variant             string
	Percentage          int
	FakeValidPercentage int
	FakeValidationMode  fakevalidation.Mode
	FetchTimeout        time.Duration
	DataDir             string
	LogLevel            string
	Validators          int
	Partition           uint32
	Interval            time.Duration
	SpawnerWorkers      int
	MailboxSize         int
	MetricsAddr         string
}

func addFlags(flags *pflag.FlagSet) {
	flags.String("variant", variantGarbageCandidate, fmt.Sprintf("node variant, one of %s, %s, %s", variantGarbageCandidate, variantPassthrough, variantHonest))
	flags.Int("percentage", 100, "percentage of candidates replaced by garbage candidates, within [0, 100]")
	flags.Int("fake-valid-percentage", insecurecmd.DefaultFakeValidPercentage, "percentage of validation requests answered without execution, within [0, 100]")
	flags.String("fake-validation-mode", fakevalidation.ModeValid.String(), fmt.Sprintf("result of validation requests answered without execution, one of %s, %s", fakevalidation.ModeValid, fakevalidation.ModeInvalid))
	flags.Duration("fetch-timeout", cmd.DefaultFetchTimeout, "deadline of chain-state fetches, 0 to disable")
	flags.String("datadir", "data", "directory of the chain-state database")
	flags.String("loglevel", "info", "level for logging output")
	flags.Int("validators", 10, "number of validators of the simulated relay chain")
	flags.Uint32("partition", 1, "id of the simulated partition")
	flags.Duration("interval", 6*time.Second, "interval between simulated relay-chain blocks")
	flags.Int("spawner-workers", 4, "number of workers for blocking tasks")
	flags.Int("mailbox-size", 1024, "number of messages buffered per subsystem")
	flags.String("metrics-addr", ":8080", "address of the prometheus metrics server, empty to disable")
}

// newViper returns a viper instance reading the flags, overridable by CORRUPT_* environment variables.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("could not bind flags: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v, nil
}

// loadConfig reads the configuration from v. Values that do not parse as their flag's type are
// errors: viper's typed getters would silently turn them into zero values.
func loadConfig(v *viper.Viper) (config, error) {
	var errs *multierror.Error
	toInt := func(key string) int {
		i, err := cast.ToIntE(v.Get(key))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid %s %q: %w", key, v.GetString(key), err))
		}
		return i
	}
	toDuration := func(key string) time.Duration {
		d, err := cast.ToDurationE(v.Get(key))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid %s %q: %w", key, v.GetString(key), err))
		}
		return d
	}

	cfg := config{
		Variant:             v.GetString("variant"),
		Percentage:          toInt("percentage"),
		FakeValidPercentage: toInt("fake-valid-percentage"),
		FetchTimeout:        toDuration("fetch-timeout"),
		DataDir:             v.GetString("datadir"),
		LogLevel:            v.GetString("loglevel"),
		Validators:          toInt("validators"),
		Interval:            toDuration("interval"),
		SpawnerWorkers:      toInt("spawner-workers"),
		MailboxSize:         toInt("mailbox-size"),
		MetricsAddr:         v.GetString("metrics-addr"),
	}

	partition, err := cast.ToUint32E(v.Get("partition"))
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid partition %q: %w", v.GetString("partition"), err))
	}
	cfg.Partition = partition

	mode, err := fakevalidation.ParseMode(v.GetString("fake-validation-mode"))
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	cfg.FakeValidationMode = mode

	if err := errs.ErrorOrNil(); err != nil {
		return config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// generator returns the orchestrator generator of the configured variant.
func (c config) generator() (cmd.OrchestratorGen, error) {
	switch c.Variant {
	case variantGarbageCandidate:
		return insecurecmd.GarbageCandidateGen{
			Percentage:          c.Percentage,
			FakeValidPercentage: c.FakeValidPercentage,
			FakeValidationMode:  c.FakeValidationMode,
			FetchTimeout:        c.FetchTimeout,
		}, nil
	case variantPassthrough:
		return &insecurecmd.PassthroughGen{}, nil
	case variantHonest:
		return cmd.ValidatorGen{}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", c.Variant)
	}
}

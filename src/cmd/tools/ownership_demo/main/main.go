// Copyright (c) 2021 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m3db/ownership/src/cmd/tools/ownership_demo/config"
	"github.com/m3db/ownership/src/cmd/tools/ownership_demo/scenario"
	"github.com/m3db/ownership/src/x/checked"
	xconfig "github.com/m3db/ownership/src/x/config"
	"github.com/m3db/ownership/src/x/instrument"

	"github.com/pborman/getopt"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	var (
		optConfigFiles = getopt.ListLong("config", 'f', "Configuration files, later files override earlier ones")
		optScenarios   = getopt.StringLong("scenarios", 's', "", "Comma separated scenarios to run, overrides the configuration")
		optDumpConfig  = getopt.BoolLong("dump-config", 'd', "Print the resolved configuration and exit")
		optList        = getopt.BoolLong("list", 'l', "List the available scenarios and exit")
	)
	getopt.Parse()

	if *optList {
		for _, name := range scenario.Names() {
			fmt.Println(name)
		}
		return
	}

	if len(*optConfigFiles) == 0 {
		getopt.Usage()
		os.Exit(1)
	}

	var cfg config.Configuration
	if err := xconfig.LoadFiles(&cfg, *optConfigFiles, xconfig.Options{Expand: os.LookupEnv}); err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}
	if *optScenarios != "" {
		cfg.Scenarios = strings.Split(*optScenarios, ",")
	}
	if *optDumpConfig {
		if err := xconfig.Dump(cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error dumping config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("ownership demo failed", zap.Error(err))
	}
}

func run(cfg config.Configuration, logger *zap.Logger) (err error) {
	checked.SetTraceback(cfg.Traceback)
	if cfg.LeakDetection {
		checked.EnableLeakDetection()
		defer checked.DisableLeakDetection()
	}

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix: "ownership_demo",
	}, cfg.ReportIntervalOrDefault())
	defer func() {
		err = multierr.Append(err, closer.Close())
	}()

	iOpts := instrument.NewOptions().
		SetLogger(logger).
		SetMetricsScope(scope).
		SetReportInterval(cfg.ReportIntervalOrDefault())

	if cfg.LeakDetection {
		reporter := instrument.NewLeakReporter(iOpts)
		if err := reporter.Start(); err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, reporter.Stop())
		}()
	}

	names := cfg.Scenarios
	if len(names) == 0 {
		names = scenario.Names()
	}
	opts := scenario.Options{
		InstrumentOptions: iOpts,
		FormatLimit:       cfg.FormatLimitOrDefault(),
		Workers:           cfg.Threads.WorkersOrDefault(),
		Jobs:              cfg.Threads.JobsOrDefault(),
		Timeout:           cfg.Threads.Timeout,
	}

	ctx := context.Background()
	for _, name := range names {
		report, err := scenario.Run(ctx, strings.TrimSpace(name), opts)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
		fields := []zap.Field{
			zap.String("scenario", report.Name),
			zap.Strings("lists", report.Lists),
		}
		for k, v := range report.Counts {
			fields = append(fields, zap.Int(k, v))
		}
		logger.Info("scenario finished", fields...)
	}

	if cfg.LeakDetection {
		for _, leak := range checked.DumpLeaks() {
			logger.Warn("leaked ref counted object", zap.String("leak", leak))
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/beetlebugorg/geoconv/pkg/geoconv"
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("workers", 0)
	viper.SetDefault("output.indent", false)

	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("geoconv")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/geoconv")
		}
	}
	configErr := viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("geoconv")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configErr != nil && file != "" {
		fmt.Fprintf(os.Stderr, "config %s: %v\n", file, configErr)
	}
}

func initSentry() bool {
	dsn := viper.GetString("sentry.dsn")
	if dsn == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
	}); err != nil {
		log.WithField("prefix", "init").Error(err)
		return false
	}
	log.WithField("prefix", "init").Debug("Initialized sentry")
	return true
}

func usage() {
	fmt.Fprint(os.Stderr, geoconv.Usage)
}

func main() {
	var (
		configFile string
		workers    int
		bbox       string
		indent     bool
	)

	// Environment from .env files, if any, before any configuration is read.
	_ = godotenv.Load()

	flag.StringVar(&configFile, "c", "", "[optional] path of configuration file")
	flag.IntVar(&workers, "workers", -1, "concurrent workers, 0 for one per CPU")
	flag.StringVar(&bbox, "bbox", "", "only convert geometries intersecting minLon,minLat,maxLon,maxLat")
	flag.BoolVar(&indent, "indent", false, "indent json and kml output")
	flag.Usage = usage
	flag.Parse()

	loadConfig(configFile)
	initLog()
	reporting := initSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, flag.Args(), workers, bbox, indent)
	stop()
	if err == nil {
		return
	}

	var (
		usageErr *geoconv.UsageError
		pathErr  *geoconv.PathError
	)
	switch {
	case errors.As(err, &usageErr), errors.As(err, &pathErr):
		fmt.Fprintln(os.Stderr, err)
		usage()
	default:
		log.WithField("prefix", "geoconv").Error(err)
		if reporting {
			sentry.CaptureException(err)
		}
	}
	if reporting {
		sentry.Flush(2 * time.Second)
	}
	os.Exit(1)
}

func run(ctx context.Context, args []string, workers int, bbox string, indent bool) error {
	job, err := geoconv.ParseArgs(args)
	if err != nil {
		return err
	}

	opts := geoconv.DefaultOptions()
	opts.Workers = viper.GetInt("workers")
	if workers >= 0 {
		opts.Workers = workers
	}
	opts.Indent = indent || viper.GetBool("output.indent")
	if bbox != "" {
		b, err := geoconv.ParseBounds(bbox)
		if err != nil {
			return err
		}
		opts.Bounds = &b
	}

	start := time.Now()
	sum, err := geoconv.Run(ctx, job, opts)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix":  "geoconv",
		"records": sum.Records,
		"cells":   sum.Cells,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("conversion finished")
	return nil
}

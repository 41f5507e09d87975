package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/MrSnakeDoc/converso/internal/app"
	"github.com/MrSnakeDoc/converso/internal/auth"
	"github.com/MrSnakeDoc/converso/internal/config"
	"github.com/MrSnakeDoc/converso/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("❌ converso failed: %v", err)
	}
}

func run(args []string) error {
	var (
		envFile     string
		showVersion bool
		issueFor    string
		plan        string
		features    []string
		tokenTTL    time.Duration
	)

	flagSet := pflag.NewFlagSet("converso", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "load environment variables from this file if it exists")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.StringVar(&issueFor, "issue-token", "", "print a development bearer token for this user id and exit")
	flagSet.StringVar(&plan, "plan", "", "plan claim of the issued token (ex: pro)")
	flagSet.StringSliceVar(&features, "feature", nil, "feature claims of the issued token (ex: 3_companion_limit)")
	flagSet.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "lifetime of the issued token")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Println(version.String())
		return nil
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	if issueFor != "" {
		cfg := config.Load()
		token, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, tokenTTL).Issue(issueFor, plan, features...)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		fmt.Println(token)
		return nil
	}

	a, err := app.New()
	if err != nil {
		return err
	}
	return a.Run()
}

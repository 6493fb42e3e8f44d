package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/dao-governance/pkg/app"
	"github.com/chainsafe/dao-governance/pkg/app/api"
	"github.com/chainsafe/dao-governance/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional, DAO_* env vars override it)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = api.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

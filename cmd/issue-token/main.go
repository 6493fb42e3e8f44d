// Command issue-token signs a bearer token for an account using the server's
// auth settings. It is meant for local development and tests against a running server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chainsafe/dao-governance/pkg/auth"
	"github.com/chainsafe/dao-governance/pkg/config"
	"github.com/chainsafe/dao-governance/pkg/dao"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	account := flag.String("account", "", "0x-prefixed 32-byte account the token is issued for")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	id, err := dao.ParseAccountID(*account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -account: %v\n", err)
		os.Exit(2)
	}

	token, err := auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(id, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

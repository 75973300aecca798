// Command admintoken prints a signed admin token for the stats endpoint.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/genpass/genpass-go/internal/config"
	"github.com/genpass/genpass-go/internal/crypto"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "ops", "token subject")
	scopes := flag.String("scopes", crypto.ScopeStatsRead, "comma-separated scopes")
	expiry := flag.Duration("expiry", 0, "token lifetime (defaults to JWT_EXPIRY)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	cfg := config.Load()

	ttl := cfg.JWTExpiry
	if *expiry > 0 {
		ttl = *expiry
	}

	token, err := crypto.GenerateToken(*subject, splitScopes(*scopes), cfg.JWTSecret, ttl)
	if err != nil {
		slog.Error("signing token failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
	slog.Info("token issued", "subject", *subject, "expires", time.Now().Add(ttl).Format(time.RFC3339))
}

func splitScopes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

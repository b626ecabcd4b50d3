// Command token issues bearer tokens for the admin endpoints of the server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"starmap-server/internal/auth"
	"starmap-server/internal/shared/config"
)

func main() {
	subject := flag.String("subject", "", "token subject, usually the operator's name")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	flag.Parse()

	// Only the auth settings matter here, so the full server validation is skipped.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *subject == "" {
		slog.Error("The -subject flag is required")
		os.Exit(2)
	}

	token, err := auth.GenerateJWT(cfg.Auth.JWTSecret, *subject, *role, cfg.Auth.TokenExpiration)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

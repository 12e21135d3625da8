// Command token mints a session token signed with the server's JWT secret,
// for local development and smoke tests against a running server.
//
//	go run ./cmd/token -user user_123 -admin
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hack2025/volunteer-hub/internal/config"
	"github.com/hack2025/volunteer-hub/internal/utils"
	"github.com/hack2025/volunteer-hub/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "identity-provider user id (token subject)")
	admin := flag.Bool("admin", false, "grant the configured admin role")
	role := flag.String("role", "", "explicit role claim, overrides -admin")
	hours := flag.Int("hours", 0, "lifetime in hours (default jwt.expire_hour)")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)

	token, err := mint(&cfg.JWT, *userID, *role, *admin, *hours)
	if err != nil {
		logger.Fatalf("Failed to mint token: %v", err)
	}
	fmt.Println(token)
}

// mint signs a token for userID. A zero hours falls back to cfg.ExpireHour.
func mint(cfg *config.JWTConfig, userID, role string, admin bool, hours int) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if role == "" && admin {
		role = cfg.AdminRole
	}
	if hours <= 0 {
		hours = cfg.ExpireHour
	}
	if hours <= 0 {
		return "", fmt.Errorf("invalid token lifetime %d hours", hours)
	}

	utils.SetJWTSecret(cfg.Secret)
	return utils.GenerateToken(userID, role, hours)
}

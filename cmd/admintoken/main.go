// cmd/admintoken/main.go
package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/spice-storefront/internal/config"
	"github.com/your-org/spice-storefront/internal/pkg/auth"
)

// Mints an admin access token for operators, signed with the configured JWT_SECRET.
//
//	go run ./cmd/admintoken -id ops-1 -email ops@spice.lk
func main() {
	id := flag.String("id", "admin", "operator id placed in the token")
	email := flag.String("email", "admin@spice.lk", "operator email placed in the token")
	admin := flag.Bool("admin", true, "grant the admin claim")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(*id, *email, *admin)
	if err != nil {
		logrus.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
	logrus.Infof("✅ Token valid for %s", cfg.JWT.AccessTokenExpiry)
}

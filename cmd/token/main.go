// Command token mints a signed access token for manual API calls and local
// development. Identity normally arrives from the upstream HR system; this
// is the stand-in for environments without it.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/stocker-hr/payroll-backend-go/internal/config"
	"github.com/stocker-hr/payroll-backend-go/internal/pkg/jwt"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant_id claim")
	userID := flag.String("user", "", "user_id claim")
	flag.Parse()

	if *tenantID == "" {
		log.Fatal("-tenant is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration)
	token, expiresAt, err := JWTService.GenerateToken(*tenantID, *userID)
	if err != nil {
		log.Fatal("Error generating token: ", err)
	}

	fmt.Println(token)
	fmt.Println("expires at:", expiresAt)
}

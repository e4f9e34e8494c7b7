// Command token prints a party token signed with JWT_SECRET, for local
// testing against cmd/api.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/iamasit07/connect4-rules/internal/config"
	"github.com/iamasit07/connect4-rules/pkg/auth"
)

func main() {
	party := flag.String("party", "", "party the token identifies")
	flag.Parse()

	config.LoadEnv()
	cfg := config.LoadConfig()

	token, err := auth.GenerateToken(cfg.JWTSecret, *party, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}

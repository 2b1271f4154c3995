package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Dev tool: issues a farmer JWT accepted by the API server's auth
// middleware. The subject claim carries the farmer's ledger account id.
func main() {
	accountID := flag.String("farmer", "0.0.5768282", "The farmer's ledger account id")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-dev-key-do-not-use-in-prod"
	}

	claims := jwt.MapClaims{
		"sub":               *accountID,
		"farmer_account_id": *accountID,
		"iat":               time.Now().Unix(),
		"exp":               time.Now().Add(*ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		fmt.Println("Error signing token:", err)
		os.Exit(1)
	}

	fmt.Println("=== Farmer JWT ===")
	fmt.Println(signed)
	fmt.Println("\n=== Curl Example ===")
	fmt.Printf("curl -v -H \"Authorization: Bearer %s\" http://localhost:8080/v1/batches\n", signed)
}

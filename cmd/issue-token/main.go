// Command issue-token mints a bearer token for one of the default roles. It is meant for local
// development and smoke tests; production tokens come from the company login service.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/pkg/jwt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	role := flag.String("role", model.RoleEstimator, "role code (MASTER_ADMIN, ESTIMATOR, VIEWER)")
	name := flag.String("name", "Dev User", "display name carried in the token")
	email := flag.String("email", "dev@example.com", "email carried in the token")
	subject := flag.String("sub", "", "user id; a random uuid when empty")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	r, ok := model.FindRole(*role)
	if !ok {
		log.Fatalf("unknown role %q", *role)
	}
	if *subject == "" {
		*subject = uuid.NewString()
	}

	token, err := jwt.NewSigner(secret, *ttl).GenerateToken(*subject, *name, *email, r.Code, r.Privileges)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}

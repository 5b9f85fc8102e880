package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/security"
)

// hash-password prints an Argon2id hash suitable for LONDONSHOP_ADMIN_PASSWORD_HASH.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "hash-password"})

	_ = godotenv.Load()

	password := flag.String("password", "", "password to hash (read from stdin when empty)")
	flag.Parse()

	var pwCfg config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &pwCfg); err != nil {
		logg.Error(ctx, "failed to load password config", err)
		os.Exit(1)
	}

	value := *password
	if value == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logg.Error(ctx, "failed to read password from stdin", err)
			os.Exit(1)
		}
		value = strings.TrimRight(line, "\r\n")
	}
	if value == "" {
		fmt.Fprintln(os.Stderr, "password must not be empty")
		os.Exit(1)
	}

	hash, err := security.HashPassword(value, pwCfg)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

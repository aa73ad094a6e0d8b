package main

import (
	"github.com/joho/godotenv"

	"github.com/pagechat/pagechat-cli/internal/adapters/driving/cli"
)

func main() {
	// A missing .env file is fine; the environment may carry the keys.
	_ = godotenv.Load()

	cli.Execute()
}

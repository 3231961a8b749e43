package main

import (
	"os"

	"github.com/joho/godotenv"

	"feed-notifier/command"
	"feed-notifier/misc"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		misc.Warn("read .env", err)
	}
	if err := command.App().Run(os.Args); err != nil {
		misc.Fatal("start", "run", err)
	}
}

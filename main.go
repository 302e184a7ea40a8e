package main

import (
	"flag"
	"fmt"
	"os"

	"yashubustudio/pocketsite/internal/app"
)

func main() {
	configPath := flag.String("config", "", "Path to config.json or config.yaml (default: ./config.json)")
	flag.Parse()
	if err := app.Run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "pocketsite:", err)
		os.Exit(1)
	}
}

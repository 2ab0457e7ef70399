package main

import "github.com/Proton-105/podcast-bot/internal/cli"

func main() {
	cli.Execute()
}

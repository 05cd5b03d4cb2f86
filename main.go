// Package main is the entry point for the cricpuzzle CLI, which turns
// cricsheet match files into "guess the player of the match" puzzles.
package main

import (
	"github.com/joho/godotenv"

	"github.com/pable/go-cricket-puzzles/cmd"
)

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()
	cmd.Execute()
}

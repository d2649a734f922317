package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/rowanarora/personal-website/cmd"
)

func main() {
	cmd.Execute()
}

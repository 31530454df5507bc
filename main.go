package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/mproservicos/mpro/cmd"
)

func main() {
	cmd.Execute()
}

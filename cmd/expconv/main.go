package main

import "github.com/emiliopalmerini/expconv/internal/cli"

func main() {
	cli.Execute()
}

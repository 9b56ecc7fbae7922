package main

import "github.com/mawi1/oondl/internal/cli"

func main() {
	cli.Execute()
}

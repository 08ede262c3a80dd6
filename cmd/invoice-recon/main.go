package main

import (
	"github.com/FACorreiaa/invoice-recon/internal/cli"
)

func main() {
	cli.Execute()
}

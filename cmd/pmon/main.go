package main

import "github.com/cakeisdead/price-monitor/internal/cli"

func main() {
	cli.Execute()
}

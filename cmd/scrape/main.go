package main

import "huskers-schedule/internal/cli"

func main() {
	cli.Execute(cli.NewScrapeCmd())
}

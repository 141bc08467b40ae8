package main

import "i18n-autocomplete/internal/cli"

func main() {
	cli.Execute()
}

package main

import (
	"github.com/racedatahub/racedata-manager-go/cmd"
)

func main() {
	cmd.Execute()
}

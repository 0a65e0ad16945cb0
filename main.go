package main

import (
	"log"

	"github.com/helmside/boatclub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

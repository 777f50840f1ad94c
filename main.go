package main

import (
	"log"

	"github.com/yarmel/photoshare/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}

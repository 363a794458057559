package main

import (
	"os"

	"github.com/qa-office/qa-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// Package main contains the entrypoint of the Telegram to Bale bridge bot.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

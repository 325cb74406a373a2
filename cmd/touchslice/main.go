// Package main starts the TouchSlice server.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// main is the entrypoint for the TouchSlice server.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(*debug); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

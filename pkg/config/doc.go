// Package config parses environment variables into tagged structs.
//
// Every component declares its own Config struct with `env` tags and
// the entry point loads them all at startup:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// The first Load in the process also layers a .env file into the
// environment when one exists, which keeps local development out of
// shell profiles. A missing .env is not an error; missing required
// variables are.
package config

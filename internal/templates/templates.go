// Package templates embeds the starter files written by the init command.
package templates

import "embed"

//go:embed default_config.yml
var DefaultConfig string

// SQL holds the starter scripts under sql/.
//
//go:embed sql/*.sql
var SQL embed.FS

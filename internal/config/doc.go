// Package config handles configuration loading for the voxtable server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from VOXTABLE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/voxtable/server.yaml
//  3. ~/.config/voxtable/server.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${VOXTABLE_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  session_ttl: "24h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # API and dashboard
//
// Database:
//
//	database:
//	  path: "/var/lib/voxtable/voxtable.db"
//
// Wizard drafts:
//
//	drafts:
//	  dir: "/var/lib/voxtable/drafts"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${VOXTABLE_JWT_SECRET}"  # Required
//	  session_ttl: "24h"                    # Default 24h
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Required fields (http_addr, database path, drafts dir, jwt_secret)
//   - Duration format validity
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

// Package config handles configuration loading for ember-widget.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	backend:
//	  base_url: "${EMBER_BACKEND_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"     # Embed pages, loader script, partials
//	  base_url: "https://widgets.example.com"
//
// Backend chat API:
//
//	backend:
//	  base_url: "https://api.example.com"
//	  timeout: "30s"
//
// Database (visitor/session key-value state):
//
//	database:
//	  path: "/var/lib/ember/widget.db"
//
// Widget behavior:
//
//	widget:
//	  default_greeting: "Hi! How can I help you today?"
//	  allowed_origins: ["*"]
//	  rate_limit_rps: 2
//	  rate_limit_burst: 5
//	  cookie_ttl: "8760h"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Metrics:
//
//	metrics:
//	  enabled: false
//	  path: "/metrics"
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/ember/widget.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

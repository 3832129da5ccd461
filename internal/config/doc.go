// Package config loads dex's startup configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (see Default)
//  2. TOML file at the given path, or ~/.config/dex/config.toml
//  3. A .env file in the working directory (never overrides the process env)
//  4. DEX_* environment variables
//
// A missing config file is not an error. Empty or non-positive values fall
// back to defaults.
//
// # TOML Format
//
//	base_url = "https://pokeapi.co/api/v2"
//	timeout_ms = 10000
//	page_size = 150
//	concurrency = 150
//	requests_per_second = 0   # 0 disables client-side rate limiting
//	log_file = "~/.local/share/dex/dex.log"
//	log_level = "info"
//	listen = ""               # e.g. ":8080" to run the headless HTTP API
//
// # Environment
//
// DEX_BASE_URL, DEX_TIMEOUT_MS, DEX_PAGE_SIZE, DEX_CONCURRENCY,
// DEX_REQUESTS_PER_SECOND, DEX_LOG_FILE, DEX_LOG_LEVEL and DEX_LISTEN map
// to the keys above. Numeric variables that do not parse make Load fail.
package config

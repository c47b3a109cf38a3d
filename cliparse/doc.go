// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flag parsing and configuration.

Flags win over environment variables; a .env file in the working directory
is loaded first for development. Configuration:

  - -p / PORT: server port (default 8000)
  - -d / DATABASE_URL: database URL or sqlite file path (required)
  - -t / DATABASE_TYPE: "sqlite" (default) or "postgres"
  - -admin-ip / ADMIN_IP: client IP allowed on instructor routes
    (default 127.0.0.1, the instructor's own machine)
  - -codes / CODE_POOL: size of the anonymized student code pool
    (default 1000)
*/
package cliparse

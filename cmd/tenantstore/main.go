/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command tenantstore runs the multi-tenant billing API.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// Package all registra todos los adapters de store vía blank imports.
package all

import (
	_ "github.com/dropDatabas3/hellolist/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/hellolist/internal/store/adapters/pg"
	_ "github.com/dropDatabas3/hellolist/internal/store/adapters/sqlite"
)

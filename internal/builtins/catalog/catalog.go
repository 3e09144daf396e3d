// Package catalog loads every builtin category. Import it for its side
// effect before looking anything up in the builtins registry.
package catalog

import (
	// Import all builtin packages to trigger their init() functions for self-registration
	_ "ning/internal/builtins/canvas"
	_ "ning/internal/builtins/control"
	_ "ning/internal/builtins/environment"
	_ "ning/internal/builtins/lists"
	_ "ning/internal/builtins/math"
	_ "ning/internal/builtins/operators"
	_ "ning/internal/builtins/strings"
	_ "ning/internal/builtins/variables"
)

package driver

// Blank-imported so each variant's init() registers itself with
// internal/backend's registry before Session.Run resolves a Backend name;
// internal/backend itself never imports a variant package, to avoid the
// import cycle a direct reference would create.
import (
	_ "asli/internal/backend/ac"
	_ "asli/internal/backend/c23"
	_ "asli/internal/backend/fallback"
)

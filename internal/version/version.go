package version

// AppVersion is the spellcast release version as reported by `spellcast version`.
// Overridden at release time via -ldflags "-X spellcast/internal/version.AppVersion=...".
var AppVersion = "0.1.0"

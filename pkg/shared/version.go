// pkg/shared/version.go

package shared

// Version is stamped at build time via -ldflags "-X ...shared.Version=v1.2.3".
var Version = "dev"

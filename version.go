package fieldline

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/fieldline.Version=...".
var Version = "0.3.0-dev"

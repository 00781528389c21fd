package version

// Name for this.
const Name string = "placard"

// Version for this.
var Version = "0.1.0"

// Revision is set at build time via -ldflags.
var Revision = "HEAD"

package versioning

// Populated at build time with
// -ldflags "-X github.com/Euraxluo/move-bridge/versioning.Commit=..."
var (
	Commit    string
	Branch    string
	BuildTime string
)

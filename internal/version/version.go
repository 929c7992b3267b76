package version

var (
	APP     = "emosense"
	VERSION = "dev"
	COMMIT  = "unknown"
)

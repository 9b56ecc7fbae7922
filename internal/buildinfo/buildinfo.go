package buildinfo

import "fmt"

const (
	AppName = "oondl"
	AppID   = "io.github.mawi1.oondl"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("%s %s (commit=%s, date=%s)", AppName, Version, Commit, Date)
}

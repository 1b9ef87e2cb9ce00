// Package version хранит сведения о сборке, которые задаются через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/restaurant/internal/version.version=v1.0.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, commit и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

func GetVersion() string { return version }

func GetCommit() string { return commit }

func GetDate() string { return date }

func String() string {
	return fmt.Sprintf("restaurant version=%s commit=%s date=%s", version, commit, date)
}

// Package version хранит сведения о сборке, заданные через -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Значения подставляются при сборке:
// -ldflags "-X github.com/vladislavdragonenkov/pizzeria/internal/version.version=v1.2.0"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info описывает сборку.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get возвращает сведения о сборке. Без ldflags коммит и дата берутся из VCS-меток
// модуля, если go build их записал.
func Get() Info {
	info := Info{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && setting.Value != "" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == "unknown" && setting.Value != "" {
				info.Date = setting.Value
			}
		}
	}
	return info
}

// GetVersion возвращает версию сборки.
func GetVersion() string { return Get().Version }

// GetCommit возвращает коммит сборки.
func GetCommit() string { return Get().Commit }

// GetDate возвращает дату сборки.
func GetDate() string { return Get().Date }

func (i Info) String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s go=%s", i.Version, i.Commit, i.Date, i.GoVersion)
}

// String возвращает сведения о сборке одной строкой для логов и флага -version.
func String() string {
	return Get().String()
}

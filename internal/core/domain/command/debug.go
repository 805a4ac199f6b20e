package command

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"time"

	"github.com/rs/zerolog/log"
)

type Debug struct {
	started time.Time
}

func NewDebug(started time.Time) *Debug {
	return &Debug{started: started}
}

const kb = 1024
const debugTemplate = `uptime: %s
allocated mem: %d KB
goroutines running: %d
heap: %d KB
stack: %d KB
compiled with %s for %s-%s
`

var debugSamples = []string{
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/heap/stacks:bytes",
	"/memory/classes/total:bytes",
}

func (d *Debug) Respond(ctx context.Context, message *domain.Message, bot port.Bot, roles []string) error {
	data := make([]metrics.Sample, len(debugSamples))
	for i, name := range debugSamples {
		data[i] = metrics.Sample{Name: name}
	}

	metrics.Read(data)

	for _, sample := range data {
		log.Debug().Str("name", sample.Name).Strs("roles", roles).Msgf("%d", sample.Value.Uint64())
	}

	goos, goarch := runtime.GOOS, runtime.GOARCH
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	return bot.SendMessage(ctx,
		fmt.Sprintf(
			debugTemplate,
			time.Since(d.started).Truncate(time.Second),
			data[2].Value.Uint64()/kb,
			runtime.NumGoroutine(),
			data[0].Value.Uint64()/kb,
			data[1].Value.Uint64()/kb,
			runtime.Version(), goos, goarch,
		), message.Channel)
}

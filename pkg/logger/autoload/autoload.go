// Package autoload initialises the global logger from LOG_* variables on import.
package autoload

import (
	configx "github.com/Design-Arena-Gens/agentic-34a61f83/pkg/config"
	logx "github.com/Design-Arena-Gens/agentic-34a61f83/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
